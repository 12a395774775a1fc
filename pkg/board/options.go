package board

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/muralis/pkg/core"
	"github.com/aretw0/muralis/pkg/palette"
	"github.com/google/uuid"
)

// DefaultViewport is used until a renderer reports its real size.
var DefaultViewport = core.Size{Width: 1280, Height: 800}

// Option configures an Engine.
type Option func(*Engine)

// WithLink sets the shared-link payload (a URL fragment, or a full URL) to
// consult before the local store.
func WithLink(fragment string) Option {
	return func(e *Engine) {
		e.link = fragment
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator overrides how note IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithRand sets the source used for initial note placement.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithPalette overrides the color picker for new notes.
func WithPalette(p palette.Picker) Option {
	return func(e *Engine) {
		if p != nil {
			e.pickColor = p
		}
	}
}

// WithViewport sets the initial viewport size.
func WithViewport(s core.Size) Option {
	return func(e *Engine) {
		e.viewport = s
	}
}

// WithEventBuffer sets the buffer size of subscriber channels. Zero means default (64).
func WithEventBuffer(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.eventBuffer = size
		}
	}
}

func defaultEngine(store core.Store) *Engine {
	return &Engine{
		store:       store,
		logger:      slog.Default(),
		newID:       uuid.NewString,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		pickColor:   palette.Random,
		viewport:    DefaultViewport,
		eventBuffer: 64,
		notes:       []core.Note{},
		source:      core.SourceEmpty,
		subs:        make(map[int]chan core.Event),
	}
}
