package board

import (
	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Mode         string   `json:"mode"`
	Source       string   `json:"source"`
	Notes        int      `json:"notes"`
	Tags         []string `json:"tags,omitempty"`
	NextZ        int      `json:"next_z"`
	TagFilter    string   `json:"tag_filter,omitempty"`
	Subscribers  int      `json:"subscribers"`
	StoreType    string   `json:"store_type"`
	PersistError string   `json:"persist_error,omitempty"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	tags := e.AllTags()

	e.mu.Lock()
	defer e.mu.Unlock()

	storeType := "none"
	if e.store != nil {
		storeType = "store"
		if comp, ok := e.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	state := EngineState{
		Mode:        e.mode.String(),
		Source:      string(e.source),
		Notes:       len(e.notes),
		Tags:        tags,
		NextZ:       e.topZ + 1,
		TagFilter:   e.tagFilter,
		Subscribers: len(e.subs),
		StoreType:   storeType,
	}
	if e.persistErr != nil {
		state.PersistError = e.persistErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "board"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
