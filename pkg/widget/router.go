package widget

import (
	"context"
	"slices"

	"github.com/aretw0/muralis/pkg/core"
)

// Hit-test geometry, in board units.
const (
	DefaultHandleHeight = 40.0
	DefaultResizeCorner = 24.0
)

// Board is what the router needs from the engine.
type Board interface {
	NoteSource
	Sink
	Stacked() []core.Note
	ReadOnly() bool
}

// Router dispatches pointer events to note controllers. A press picks the
// top-most note under the pointer; if that starts a gesture, the router
// captures the pointer for that controller until release, so moves and the
// release reach only it.
type Router struct {
	board        Board
	controllers  map[string]*Controller
	capture      *Controller
	HandleHeight float64
	ResizeCorner float64
}

// NewRouter creates a router over b.
func NewRouter(b Board) *Router {
	return &Router{
		board:        b,
		controllers:  make(map[string]*Controller),
		HandleHeight: DefaultHandleHeight,
		ResizeCorner: DefaultResizeCorner,
	}
}

// Controller returns the controller for a note, creating it on first use.
func (r *Router) Controller(id string) *Controller {
	c, ok := r.controllers[id]
	if !ok {
		c = New(id, r.board, r.board, r.board.ReadOnly())
		r.controllers[id] = c
	}
	return c
}

// Captured returns the controller holding the pointer, if any.
func (r *Router) Captured() *Controller {
	return r.capture
}

// HitTest returns the top-most visible note under p and the region hit.
func (r *Router) HitTest(p core.Point) (core.Note, Region, bool) {
	stacked := r.board.Stacked()
	for _, n := range slices.Backward(stacked) {
		if !n.Contains(p) {
			continue
		}
		right := n.Position.X + n.Size.Width
		bottom := n.Position.Y + n.Size.Height
		switch {
		case p.X >= right-r.ResizeCorner && p.Y >= bottom-r.ResizeCorner:
			return n, RegionResize, true
		case p.Y < n.Position.Y+r.HandleHeight:
			return n, RegionHandle, true
		default:
			return n, RegionBody, true
		}
	}
	return core.Note{}, RegionBody, false
}

// Press handles a pointer press. It returns the ID of the note hit, or "".
func (r *Router) Press(ctx context.Context, p core.Point) (string, error) {
	if r.capture != nil {
		// A press without a release in between; finish the stale gesture.
		r.Release()
	}

	n, region, ok := r.HitTest(p)
	if !ok {
		return "", nil
	}

	c := r.Controller(n.ID)
	captured, err := c.PointerDown(ctx, region, p)
	if err != nil {
		return n.ID, err
	}
	if captured {
		r.capture = c
	}
	return n.ID, nil
}

// Move forwards pointer motion to the capturing controller.
func (r *Router) Move(ctx context.Context, p core.Point) error {
	if r.capture == nil {
		return nil
	}
	return r.capture.PointerMove(ctx, p)
}

// Release ends the active gesture and drops the capture.
func (r *Router) Release() {
	if r.capture == nil {
		return
	}
	r.capture.PointerUp()
	r.capture = nil
}

// Sync drops controllers whose notes are gone.
func (r *Router) Sync(notes []core.Note) {
	live := make(map[string]bool, len(notes))
	for _, n := range notes {
		live[n.ID] = true
	}
	for id, c := range r.controllers {
		if live[id] {
			continue
		}
		if r.capture == c {
			r.Release()
		}
		delete(r.controllers, id)
	}
}
