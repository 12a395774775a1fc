// Package widget translates raw pointer gestures and edits on one note into
// intents for the board engine. A Controller holds only transient UI state
// (the active gesture and pending tag text), never the note itself.
package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/core"
)

// State is the gesture state of a controller.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Region is the part of a note a pointer press landed on.
type Region int

const (
	RegionBody Region = iota
	RegionHandle
	RegionResize
)

// NoteSource reads the current value of a note.
type NoteSource interface {
	Note(id string) (core.Note, bool)
}

// Sink receives intents. *board.Engine is the canonical sink.
type Sink interface {
	Apply(ctx context.Context, in board.Intent) error
}

// Controller drives one note.
type Controller struct {
	id       string
	src      NoteSource
	sink     Sink
	readOnly bool

	state        State
	startPointer core.Point
	startPos     core.Point
	startSize    core.Size

	editingTags bool
	tagInput    string
}

// New creates a controller for the note with the given ID.
func New(id string, src NoteSource, sink Sink, readOnly bool) *Controller {
	return &Controller{id: id, src: src, sink: sink, readOnly: readOnly}
}

// ID returns the note this controller drives.
func (c *Controller) ID() string { return c.id }

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// PointerDown starts a gesture. It reports whether the controller now wants
// the following move and release events. Read-only notes never start one.
func (c *Controller) PointerDown(ctx context.Context, region Region, p core.Point) (bool, error) {
	if c.readOnly || c.state != Idle {
		return false, nil
	}
	note, ok := c.src.Note(c.id)
	if !ok {
		return false, nil
	}

	switch region {
	case RegionHandle:
		c.state = Dragging
		c.startPos = note.Position
	case RegionResize:
		c.state = Resizing
		c.startSize = note.Size
	default:
		return false, c.sink.Apply(ctx, board.FrontIntent{ID: c.id})
	}
	c.startPointer = p

	if err := c.sink.Apply(ctx, board.FrontIntent{ID: c.id}); err != nil {
		c.state = Idle
		return false, err
	}
	return true, nil
}

// PointerMove updates the note from the pointer's offset to the gesture
// start. Positions are absolute (start + delta) so rounding never drifts.
func (c *Controller) PointerMove(ctx context.Context, p core.Point) error {
	if c.state == Idle {
		return nil
	}
	note, ok := c.src.Note(c.id)
	if !ok {
		// Deleted mid-gesture.
		c.state = Idle
		return nil
	}

	delta := p.Sub(c.startPointer)
	switch c.state {
	case Dragging:
		note.Position = c.startPos.Add(delta)
	case Resizing:
		note.Size = core.Size{
			Width:  c.startSize.Width + delta.X,
			Height: c.startSize.Height + delta.Y,
		}.Clamp()
	}
	return c.sink.Apply(ctx, board.UpdateIntent{Note: note})
}

// PointerUp ends the gesture.
func (c *Controller) PointerUp() {
	c.state = Idle
}

// EditContent replaces the note content. Every keystroke is one update.
func (c *Controller) EditContent(ctx context.Context, text string) error {
	if c.readOnly {
		return nil
	}
	note, ok := c.src.Note(c.id)
	if !ok {
		return nil
	}
	note.Content = text
	return c.sink.Apply(ctx, board.UpdateIntent{Note: note})
}

// Delete asks the engine to remove the note.
func (c *Controller) Delete(ctx context.Context) error {
	if c.readOnly {
		return nil
	}
	return c.sink.Apply(ctx, board.DeleteIntent{ID: c.id})
}

// BeginTagEdit opens the tag input.
func (c *Controller) BeginTagEdit() {
	if c.readOnly {
		return
	}
	c.editingTags = true
	c.tagInput = ""
}

// EditingTags reports whether the tag input is open.
func (c *Controller) EditingTags() bool { return c.editingTags }

// TagInput returns the pending tag text.
func (c *Controller) TagInput() string { return c.tagInput }

// SetTagInput records the pending tag text.
func (c *Controller) SetTagInput(text string) {
	if c.editingTags {
		c.tagInput = text
	}
}

// SubmitTags merges the comma-separated pending tags into the note and
// closes the input. Blank input leaves the editor open and sends nothing.
func (c *Controller) SubmitTags(ctx context.Context) error {
	if !c.editingTags || strings.TrimSpace(c.tagInput) == "" {
		return nil
	}
	note, ok := c.src.Note(c.id)
	if !ok {
		c.Blur()
		return nil
	}

	note.Tags = MergeTags(note.Tags, c.tagInput)
	c.Blur()
	return c.sink.Apply(ctx, board.UpdateIntent{Note: note})
}

// Blur closes the tag input, discarding pending text.
func (c *Controller) Blur() {
	c.editingTags = false
	c.tagInput = ""
}

// RemoveTag drops one tag from the note.
func (c *Controller) RemoveTag(ctx context.Context, tag string) error {
	if c.readOnly {
		return nil
	}
	note, ok := c.src.Note(c.id)
	if !ok || !note.HasTag(tag) {
		return nil
	}

	kept := make([]string, 0, len(note.Tags))
	for _, t := range note.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	note.Tags = kept
	return c.sink.Apply(ctx, board.UpdateIntent{Note: note})
}

// MergeTags splits input on commas, trims, drops empties and appends the
// tags not already present.
func MergeTags(existing []string, input string) []string {
	out := make([]string, 0, len(existing))
	seen := make(map[string]struct{}, len(existing))
	add := func(t string) {
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, t := range existing {
		add(t)
	}
	for _, part := range strings.Split(input, ",") {
		if t := strings.TrimSpace(part); t != "" {
			add(t)
		}
	}
	return out
}
