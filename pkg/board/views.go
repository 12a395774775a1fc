package board

import (
	"fmt"
	"slices"
	"sort"

	"github.com/aretw0/muralis/pkg/codec"
	"github.com/aretw0/muralis/pkg/core"
	"github.com/bmatcuk/doublestar/v4"
)

// Notes returns a copy of the collection in creation order.
func (e *Engine) Notes() []core.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return core.CloneNotes(e.notes)
}

// Note returns a copy of the note with the given ID.
func (e *Engine) Note(id string) (core.Note, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return core.Note{}, false
	}
	return e.notes[i].Clone(), true
}

// Mode returns the session mode.
func (e *Engine) Mode() core.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// ReadOnly reports whether the board rejects mutations.
func (e *Engine) ReadOnly() bool {
	return e.Mode() == core.ModeReadOnly
}

// Source returns the channel the board was loaded from.
func (e *Engine) Source() core.Source {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// NextZ returns the stacking value the next add or bring-to-front will use.
func (e *Engine) NextZ() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.topZ + 1
}

// SetTagFilter restricts VisibleNotes to notes carrying tag.
// An empty tag clears the filter.
func (e *Engine) SetTagFilter(tag string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tagFilter = tag
}

// ClearTagFilter shows every note again.
func (e *Engine) ClearTagFilter() {
	e.SetTagFilter("")
}

// TagFilter returns the active filter, if any.
func (e *Engine) TagFilter() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tagFilter, e.tagFilter != ""
}

// AllTags returns every tag used on the board, sorted.
func (e *Engine) AllTags() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	set := make(map[string]struct{})
	for _, n := range e.notes {
		for _, t := range n.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// VisibleNotes returns the notes passing the tag filter, in creation order.
func (e *Engine) VisibleNotes() []core.Note {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tagFilter == "" {
		return core.CloneNotes(e.notes)
	}
	out := []core.Note{}
	for _, n := range e.notes {
		if n.HasTag(e.tagFilter) {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Stacked returns the visible notes ordered back to front.
func (e *Engine) Stacked() []core.Note {
	notes := e.VisibleNotes()
	slices.SortStableFunc(notes, func(a, b core.Note) int { return a.ZIndex - b.ZIndex })
	return notes
}

// MatchTags returns the notes with at least one tag matching a glob
// pattern such as "work/**" or "idea-*".
func (e *Engine) MatchTags(pattern string) ([]core.Note, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := []core.Note{}
	for _, n := range e.notes {
		for _, t := range n.Tags {
			if ok, _ := doublestar.Match(pattern, t); ok {
				out = append(out, n.Clone())
				break
			}
		}
	}
	return out, nil
}

// Share builds a read-only link carrying the whole collection.
func (e *Engine) Share(base string) (string, error) {
	return codec.ShareURL(base, e.Notes())
}
