package fs

import (
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/muralis/pkg/core"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	Versioned     bool       `json:"versioned"`
	Exists        bool       `json:"exists"`
	Bytes         int64      `json:"bytes"`
	Saves         int        `json:"saves"`
	LastSave      *time.Time `json:"last_save,omitempty"`
	WatcherActive bool       `json:"watcher_active"`
	LastReconcile *time.Time `json:"last_reconcile,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	st := statStamp(s.Path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:          s.Path,
		Format:        s.format,
		Versioned:     s.git != nil,
		Exists:        st.exists,
		Bytes:         st.size,
		Saves:         s.saves,
		LastSave:      s.lastSave,
		WatcherActive: s.watcherActive,
		LastReconcile: s.lastReconcile,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Store) observe(st stamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed = st
}

// reconcile compares the file with the last observed version and returns
// the event a reader missed, if any.
func (s *Store) reconcile() (core.Event, bool) {
	current := statStamp(s.Path)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReconcile = &now

	prev := s.observed
	s.observed = current
	if current.same(prev) || (current.exists && current.same(s.lastWritten)) {
		return core.Event{}, false
	}

	e := core.Event{Type: core.EventModify, Timestamp: now.Unix()}
	switch {
	case !prev.exists && current.exists:
		e.Type = core.EventCreate
	case prev.exists && !current.exists:
		e.Type = core.EventDelete
	}
	return e, true
}
