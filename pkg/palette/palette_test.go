package palette_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aretw0/muralis/pkg/palette"
	"github.com/stretchr/testify/assert"
)

func TestRandom_AlwaysInPalette(t *testing.T) {
	for range 200 {
		assert.True(t, palette.Contains(palette.Random()))
	}
}

func TestFrom_Deterministic(t *testing.T) {
	a := palette.From(rand.New(rand.NewPCG(7, 7)))
	b := palette.From(rand.New(rand.NewPCG(7, 7)))
	for range 20 {
		c := a()
		assert.Equal(t, c, b())
		assert.True(t, palette.Contains(c))
	}
}

func TestContains_Unknown(t *testing.T) {
	assert.False(t, palette.Contains("#000000"))
}
