package board

import (
	"context"
	"fmt"

	"github.com/aretw0/muralis/pkg/core"
)

// Intent is a one-way request from a note widget to the engine.
// The engine alone applies it and produces the next view.
type Intent interface {
	intent()
}

// AddIntent asks for a new note with the given content.
type AddIntent struct {
	Content string
}

// UpdateIntent replaces the stored note sharing Note.ID.
type UpdateIntent struct {
	Note core.Note
}

// DeleteIntent removes a note.
type DeleteIntent struct {
	ID string
}

// FrontIntent raises a note above every other note.
type FrontIntent struct {
	ID string
}

func (AddIntent) intent()    {}
func (UpdateIntent) intent() {}
func (DeleteIntent) intent() {}
func (FrontIntent) intent()  {}

// Apply dispatches an intent to the matching operation.
func (e *Engine) Apply(ctx context.Context, in Intent) error {
	switch in := in.(type) {
	case AddIntent:
		_, err := e.AddNote(ctx, in.Content)
		return err
	case UpdateIntent:
		return e.UpdateNote(ctx, in.Note)
	case DeleteIntent:
		return e.DeleteNote(ctx, in.ID)
	case FrontIntent:
		return e.BringToFront(ctx, in.ID)
	default:
		return fmt.Errorf("unknown intent %T", in)
	}
}
