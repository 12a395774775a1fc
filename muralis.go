package muralis

import (
	"context"
	"log/slog"

	"github.com/aretw0/muralis/internal/platform"
	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/core"
)

// --- Types ---

// Note is a public alias for a single sticky note.
type Note = core.Note

// Engine is a public alias for the board state engine.
type Engine = board.Engine

// Session is an opened board with its store.
type Session = platform.Session

// --- Configuration ---

// Option defines a functional option for opening a board.
type Option = platform.Option

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter allows specifying the storage adapter by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger for the engine and the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithLink opens the board from a shared link. A decodable link makes the session read-only.
func WithLink(link string) Option {
	return platform.WithLink(link)
}

// WithViewport sets the visible area new notes are placed in.
func WithViewport(width, height float64) Option {
	return platform.WithViewport(core.Size{Width: width, Height: height})
}

// WithVersioning enables or disables Git versioning of the fs store.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithHistoryLimit sets how many snapshots the sqlite store keeps.
func WithHistoryLimit(n int) Option {
	return platform.WithHistoryLimit(n)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp-dir sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithEngineOptions passes options straight to the board engine.
func WithEngineOptions(opts ...board.Option) Option {
	return platform.WithEngineOptions(opts...)
}

// --- Factory ---

// Open creates the store and loads the board.
func Open(ctx context.Context, path string, opts ...Option) (*Session, error) {
	return platform.Open(ctx, path, opts...)
}

// Init creates the store only.
func Init(ctx context.Context, path string, opts ...Option) (core.Store, error) {
	store, _, err := platform.Init(ctx, path, opts...)
	return store, err
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual path for the store based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindConfig looks upwards from startDir for a muralis config file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
