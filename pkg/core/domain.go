// Package core holds the domain types shared by the board engine, the codec
// and the storage adapters.
package core

import "fmt"

// Mode is the session mode, fixed once the board is loaded.
type Mode int

const (
	ModeEditable Mode = iota
	ModeReadOnly
)

func (m Mode) String() string {
	switch m {
	case ModeEditable:
		return "editable"
	case ModeReadOnly:
		return "read-only"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Source names the channel a board was loaded from.
type Source string

const (
	SourceLink  Source = "link"
	SourceStore Source = "store"
	SourceEmpty Source = "empty"
)

// EventType represents the type of change on the board or in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a note, or to the stored snapshot when ID is empty.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
