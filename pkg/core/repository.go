package core

import (
	"context"
	"time"
)

// Store defines the contract for the local persisted state: a single entry,
// keyed by a fixed identifier, holding the serialized note collection.
// Adhering to this interface keeps the board independent of the storage
// mechanism (file, SQLite, memory).
type Store interface {
	// Load returns the raw snapshot. It returns ErrNotFound when there is
	// no prior session.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the snapshot.
	Save(ctx context.Context, data []byte) error

	// Clear removes the snapshot. Clearing an absent entry is not an error.
	Clear(ctx context.Context) error
}

// Watchable is implemented by stores that can report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Closer is implemented by stores holding resources (e.g. database handles).
type Closer interface {
	Close() error
}

// Revision is one recorded version of the snapshot.
type Revision struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Subject string    `json:"subject"`
}

// Versioned is implemented by stores that keep past snapshots.
type Versioned interface {
	// History lists revisions newest first. limit <= 0 means all.
	History(ctx context.Context, limit int) ([]Revision, error)
	// Revision returns the canonical JSON snapshot recorded as id.
	Revision(ctx context.Context, id string) ([]byte, error)
}
