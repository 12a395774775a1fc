package core

import (
	"math"
	"slices"
)

// StorageKey is the fixed identifier under which the local snapshot is stored.
const StorageKey = "muralis-notes"

// Size limits, in board units.
const (
	MinWidth      = 200.0
	MinHeight     = 150.0
	DefaultWidth  = 280.0
	DefaultHeight = 240.0
)

// Point is a position in board space. Coordinates are unconstrained.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// Size is the width and height of a note.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Clamp raises each dimension to its minimum. NaN and infinite dimensions
// become the minimum too.
func (s Size) Clamp() Size {
	return Size{Width: clampDim(s.Width, MinWidth), Height: clampDim(s.Height, MinHeight)}
}

// Valid reports whether the size is finite and respects the minimums.
func (s Size) Valid() bool {
	return finite(s.Width) && finite(s.Height) && s.Width >= MinWidth && s.Height >= MinHeight
}

func clampDim(v, lo float64) float64 {
	if !finite(v) {
		return lo
	}
	return max(v, lo)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Note is the central entity of the domain: one sticky note on the board.
// The JSON layout is the wire format shared with stored and linked snapshots.
type Note struct {
	ID       string   `json:"id" yaml:"id"`
	Content  string   `json:"content" yaml:"content"`
	Tags     []string `json:"tags" yaml:"tags"`
	Color    string   `json:"color" yaml:"color"`
	Position Point    `json:"position" yaml:"position"`
	Size     Size     `json:"size" yaml:"size"`
	ZIndex   int      `json:"zIndex" yaml:"zIndex"`
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// Clone returns a copy that shares no memory with n.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = slices.Clone(n.Tags)
	} else {
		c.Tags = []string{}
	}
	return c
}

// Contains reports whether p lies inside the note's rectangle.
func (n Note) Contains(p Point) bool {
	return p.X >= n.Position.X && p.X < n.Position.X+n.Size.Width &&
		p.Y >= n.Position.Y && p.Y < n.Position.Y+n.Size.Height
}

// CloneNotes deep-copies a collection. A nil input yields an empty slice.
func CloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// MaxZ returns the highest zIndex in notes, or 0 when empty.
func MaxZ(notes []Note) int {
	m := 0
	for _, n := range notes {
		m = max(m, n.ZIndex)
	}
	return m
}
