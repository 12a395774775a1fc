// Package memory provides an in-process core.Store, used for ephemeral
// sessions and tests.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/muralis/pkg/core"
)

// Store keeps the snapshot in memory.
type Store struct {
	mu     sync.RWMutex
	data   []byte
	exists bool
	saves  int
}

// NewStore creates an empty store. Pass seed to start with an existing snapshot.
func NewStore(seed ...[]byte) *Store {
	s := &Store{}
	if len(seed) > 0 && seed[0] != nil {
		s.data = bytes.Clone(seed[0])
		s.exists = true
	}
	return s
}

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return nil, core.ErrNotFound
	}
	return bytes.Clone(s.data), nil
}

func (s *Store) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = bytes.Clone(data)
	s.exists = true
	s.saves++
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.exists = false
	return nil
}

// Saves returns how many writes the store has received.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Exists bool `json:"exists"`
	Bytes  int  `json:"bytes"`
	Saves  int  `json:"saves"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Exists: s.exists, Bytes: len(s.data), Saves: s.saves}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
