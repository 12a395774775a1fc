package platform

import (
	"log/slog"

	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/core"
)

// options holds the internal configuration for a board session.
type options struct {
	store        core.Store
	logger       *slog.Logger
	adapter      string
	link         string
	viewport     *core.Size
	versioned    bool
	historyLimit int
	forceTemp    bool
	devSafety    bool
	errorHandler func(error)
	engine       []board.Option
}

// Option defines a functional option for opening a session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   "fs",
		devSafety: true,
	}
}

// WithStore injects a custom store. The adapter and path are then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the store adapter by name: "fs", "sqlite" or "memory".
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLogger sets the logger for the engine and the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLink opens the board from a shared link (a URL or a bare payload).
// A decodable link makes the session read-only.
func WithLink(link string) Option {
	return func(o *options) {
		o.link = link
	}
}

// WithViewport sets the area new notes are placed in.
func WithViewport(s core.Size) Option {
	return func(o *options) {
		o.viewport = &s
	}
}

// WithVersioning commits every save of an fs store to git.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioned = enabled
	}
}

// WithHistoryLimit sets how many snapshots the sqlite store retains.
// Zero means the adapter default; negative disables history.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		o.historyLimit = n
	}
}

// WithForceTemp re-roots the store path into the system temp directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) the store is re-rooted into a temp directory
// so development runs never touch a real board.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithWatcherErrorHandler receives background store failures (watcher, git).
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithEngineOptions passes extra options to board.New.
func WithEngineOptions(opts ...board.Option) Option {
	return func(o *options) {
		o.engine = append(o.engine, opts...)
	}
}
