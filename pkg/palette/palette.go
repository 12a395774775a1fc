// Package palette provides the fixed set of note colors.
package palette

import (
	"math/rand/v2"
	"slices"
)

// Pastel is the set of colors a note can be given.
var Pastel = []string{
	"#FFD1DC", // light pink
	"#FFFACD", // lemon chiffon
	"#ADD8E6", // light blue
	"#98FB98", // pale green
	"#D8BFD8", // thistle
	"#FFE4B5", // moccasin
}

// Picker returns a color for a new note.
type Picker func() string

// Random picks uniformly from Pastel using the package-level source.
func Random() string {
	return Pastel[rand.IntN(len(Pastel))]
}

// From returns a Picker drawing from r, for reproducible boards.
func From(r *rand.Rand) Picker {
	return func() string {
		return Pastel[r.IntN(len(Pastel))]
	}
}

// Contains reports whether c is a palette color.
func Contains(c string) bool {
	return slices.Contains(Pastel, c)
}
