package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/introspection"

	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/core"
)

// Session is an initialized board together with the store behind it.
type Session struct {
	Engine *board.Engine
	Store  core.Store
	// Path is the resolved store location, empty for memory and injected stores.
	Path   string
	Report board.LoadReport
}

// Open creates the store, builds the engine and loads the board.
//
//	s, err := platform.Open(ctx, "notes.json", platform.WithAdapter("fs"))
func Open(ctx context.Context, uri string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, path, err := initStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	var engineOpts []board.Option
	if o.logger != nil {
		engineOpts = append(engineOpts, board.WithLogger(o.logger))
	}
	if o.link != "" {
		engineOpts = append(engineOpts, board.WithLink(o.link))
	}
	if o.viewport != nil {
		engineOpts = append(engineOpts, board.WithViewport(*o.viewport))
	}
	engineOpts = append(engineOpts, o.engine...)

	engine := board.New(store, engineOpts...)
	report := engine.Initialize(ctx)

	return &Session{Engine: engine, Store: store, Path: path, Report: report}, nil
}

// Close releases store resources.
func (s *Session) Close() error {
	if c, ok := s.Store.(core.Closer); ok {
		return c.Close()
	}
	return nil
}

// Watch streams external changes to the store.
func (s *Session) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := s.Store.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("watch: %w", ErrUnsupported)
	}
	return w.Watch(ctx)
}

// History lists past snapshots of the store.
func (s *Session) History(ctx context.Context, limit int) ([]core.Revision, error) {
	v, ok := s.Store.(core.Versioned)
	if !ok {
		return nil, fmt.Errorf("history: %w", ErrUnsupported)
	}
	return v.History(ctx, limit)
}

// Revision returns the notes recorded in a past snapshot.
func (s *Session) Revision(ctx context.Context, id string) ([]byte, error) {
	v, ok := s.Store.(core.Versioned)
	if !ok {
		return nil, fmt.Errorf("revision: %w", ErrUnsupported)
	}
	return v.Revision(ctx, id)
}

// SessionState is the introspection view of a session.
type SessionState struct {
	Engine    any    `json:"engine"`
	Store     any    `json:"store,omitempty"`
	StoreType string `json:"store_type,omitempty"`
	Path      string `json:"path,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	st := SessionState{Engine: s.Engine.State(), Path: s.Path}
	if i, ok := s.Store.(introspection.Introspectable); ok {
		st.Store = i.State()
	}
	if c, ok := s.Store.(introspection.Component); ok {
		st.StoreType = c.ComponentType()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
