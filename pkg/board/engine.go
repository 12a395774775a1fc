// Package board implements the Board State Engine: the single source of truth
// for the note collection, the session mode and the stacking counter.
//
// The engine is created once per session from exactly one of two sources,
// a shared link (read-only) or the local store (editable), and then applies
// intents coming from note widgets. Every successful mutation in editable
// mode writes the whole collection back to the store.
//
// Usage:
//
//	e := board.New(store, board.WithLink(fragment), board.WithLogger(logger))
//	report := e.Initialize(ctx)
//	note, err := e.AddNote(ctx, "buy milk")
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/muralis/pkg/codec"
	"github.com/aretw0/muralis/pkg/core"
	"github.com/aretw0/muralis/pkg/palette"
)

// Engine owns the canonical note collection. It is safe for concurrent use;
// all mutations serialize on a single lock.
type Engine struct {
	mu sync.Mutex

	store     core.Store
	link      string
	logger    *slog.Logger
	newID     func() string
	rng       *rand.Rand
	pickColor palette.Picker
	viewport  core.Size

	notes     []core.Note
	topZ      int // highest zIndex issued or loaded
	mode      core.Mode
	tagFilter string

	loaded bool
	source core.Source
	report LoadReport

	persistErr error
	warned     bool

	eventBuffer int
	subs        map[int]chan core.Event
	nextSub     int
}

// LoadReport describes how Initialize built the board.
type LoadReport struct {
	Source core.Source
	Mode   core.Mode
	Count  int
	// Err holds decode failures that were recovered from. It matches core.ErrDecode.
	Err error
}

// New creates an engine backed by store. A nil store keeps the board in memory only.
func New(store core.Store, opts ...Option) *Engine {
	e := defaultEngine(store)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize loads the board. The link channel wins when it carries a
// decodable snapshot; otherwise the local store is used. Decode failures are
// logged and recovered: a bad local entry is cleared and the board starts
// empty and editable. Initialize runs once; later calls return the first report.
func (e *Engine) Initialize(ctx context.Context) LoadReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return e.report
	}
	e.loaded = true

	var errs []error

	if fragment := codec.FragmentOf(e.link); fragment != "" {
		notes, err := codec.DecodeLink(fragment)
		if err == nil {
			e.adopt(notes, core.SourceLink, core.ModeReadOnly)
			e.logger.Info("board loaded from link", "notes", len(e.notes), "mode", e.mode)
			e.report = LoadReport{Source: core.SourceLink, Mode: e.mode, Count: len(e.notes)}
			return e.report
		}
		e.logger.Error("failed to load notes from link", "error", err)
		errs = append(errs, fmt.Errorf("link: %w", err))
	}

	if err := e.loadStore(ctx); err != nil {
		errs = append(errs, err)
	}

	e.report = LoadReport{Source: e.source, Mode: e.mode, Count: len(e.notes), Err: errors.Join(errs...)}
	return e.report
}

// loadStore adopts the local snapshot, clearing it when it cannot be decoded.
func (e *Engine) loadStore(ctx context.Context) error {
	if e.store == nil {
		e.adopt(nil, core.SourceEmpty, core.ModeEditable)
		return nil
	}

	data, err := e.store.Load(ctx)
	if errors.Is(err, core.ErrNotFound) {
		e.adopt(nil, core.SourceEmpty, core.ModeEditable)
		return nil
	}
	if err != nil && !errors.Is(err, core.ErrDecode) {
		// Unreadable is not corrupted: keep the entry for the next session.
		e.logger.Error("failed to read local store", "error", err)
		e.adopt(nil, core.SourceEmpty, core.ModeEditable)
		return nil
	}

	// Stores that transcode on load report corruption as ErrDecode themselves.
	var notes []core.Note
	if err == nil {
		notes, err = codec.DecodeStore(data)
	}
	if err != nil {
		e.logger.Error("failed to load notes", "error", err)
		if cerr := e.store.Clear(ctx); cerr != nil {
			e.logger.Error("failed to clear corrupted local store", "error", cerr)
		}
		e.adopt(nil, core.SourceEmpty, core.ModeEditable)
		return fmt.Errorf("store: %w", err)
	}

	e.adopt(notes, core.SourceStore, core.ModeEditable)
	e.logger.Debug("board loaded from store", "notes", len(e.notes))
	return nil
}

func (e *Engine) adopt(notes []core.Note, source core.Source, mode core.Mode) {
	e.notes = core.CloneNotes(notes)
	for i := range e.notes {
		e.notes[i].Size = e.notes[i].Size.Clamp()
		if !e.notes[i].Position.Finite() {
			e.notes[i].Position = core.Point{}
		}
	}
	e.topZ = core.MaxZ(e.notes)
	e.source = source
	e.mode = mode
}

// AddNote creates a note with the given content and appends it to the board.
func (e *Engine) AddNote(ctx context.Context, content string) (core.Note, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == core.ModeReadOnly {
		return core.Note{}, core.ErrReadOnly
	}

	id := e.newID()
	for e.indexOf(id) >= 0 {
		id = e.newID()
	}

	e.topZ++
	note := core.Note{
		ID:       id,
		Content:  content,
		Tags:     []string{},
		Color:    e.pickColor(),
		Position: e.placement(),
		Size:     core.Size{Width: core.DefaultWidth, Height: core.DefaultHeight},
		ZIndex:   e.topZ,
	}
	e.notes = append(e.notes, note)

	e.logger.Debug("note added", "id", note.ID, "z", note.ZIndex)
	e.commit(ctx, core.EventCreate, note.ID)
	return note.Clone(), nil
}

// placement picks a random origin so a default-sized note fits in the viewport.
// Viewports smaller than a note collapse the range to zero.
func (e *Engine) placement() core.Point {
	w := max(0, e.viewport.Width-core.DefaultWidth)
	h := max(0, e.viewport.Height-core.DefaultHeight)
	return core.Point{X: e.rng.Float64() * w, Y: e.rng.Float64() * h}
}

// UpdateNote replaces the stored note sharing note.ID. The size is clamped to
// the minimums and the color is kept, since it is fixed at creation. A
// non-finite position keeps the stored one. Unknown IDs are ignored.
func (e *Engine) UpdateNote(ctx context.Context, note core.Note) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == core.ModeReadOnly {
		return core.ErrReadOnly
	}

	i := e.indexOf(note.ID)
	if i < 0 {
		e.logger.Debug("update for unknown note ignored", "id", note.ID)
		return nil
	}

	next := note.Clone()
	next.Size = next.Size.Clamp()
	next.Color = e.notes[i].Color
	if !next.Position.Finite() {
		e.logger.Debug("non-finite position ignored", "id", note.ID, "position", next.Position)
		next.Position = e.notes[i].Position
	}
	e.notes[i] = next
	e.topZ = max(e.topZ, next.ZIndex)

	e.commit(ctx, core.EventModify, note.ID)
	return nil
}

// DeleteNote removes a note. Unknown IDs are ignored.
func (e *Engine) DeleteNote(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == core.ModeReadOnly {
		return core.ErrReadOnly
	}

	i := e.indexOf(id)
	if i < 0 {
		return nil
	}
	e.notes = slices.Delete(e.notes, i, i+1)

	e.logger.Debug("note deleted", "id", id)
	e.commit(ctx, core.EventDelete, id)
	return nil
}

// BringToFront gives the note a zIndex above every other note and above any
// value handed out before. Unknown IDs are ignored and do not consume a value.
func (e *Engine) BringToFront(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == core.ModeReadOnly {
		return core.ErrReadOnly
	}

	i := e.indexOf(id)
	if i < 0 {
		return nil
	}
	e.topZ++
	e.notes[i].ZIndex = e.topZ

	e.commit(ctx, core.EventModify, id)
	return nil
}

// Import replaces the whole collection, e.g. from an exported file.
func (e *Engine) Import(ctx context.Context, notes []core.Note) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == core.ModeReadOnly {
		return core.ErrReadOnly
	}

	prevZ := e.topZ
	e.adopt(notes, e.source, e.mode)
	e.topZ = max(prevZ, e.topZ)
	e.logger.Info("board imported", "notes", len(e.notes))
	e.commit(ctx, core.EventModify, "")
	return nil
}

// SetViewport records the renderer's visible area for new note placement.
func (e *Engine) SetViewport(s core.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = s
}

// PersistErr returns the last failed store write of this session, if any.
func (e *Engine) PersistErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistErr
}

// commit persists the collection and notifies subscribers. Must hold e.mu.
func (e *Engine) commit(ctx context.Context, t core.EventType, id string) {
	if e.store != nil {
		if err := e.persist(ctx); err != nil {
			e.persistErr = err
			if !e.warned {
				e.warned = true
				e.logger.Warn("changes are not being saved", "error", err)
			} else {
				e.logger.Debug("persist failed", "error", err)
			}
		}
	}
	e.publish(core.Event{Type: t, ID: id, Timestamp: time.Now().Unix()})
}

func (e *Engine) persist(ctx context.Context) error {
	data, err := codec.EncodeStore(e.notes)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersist, err)
	}
	if err := e.store.Save(ctx, data); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersist, err)
	}
	return nil
}

func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.notes, func(n core.Note) bool { return n.ID == id })
}
