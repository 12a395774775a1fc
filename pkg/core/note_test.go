package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/muralis/pkg/core"
)

func TestSize_Clamp(t *testing.T) {
	floor := core.Size{Width: core.MinWidth, Height: core.MinHeight}

	tests := []struct {
		name string
		in   core.Size
		want core.Size
	}{
		{"Undersized", core.Size{Width: 10, Height: -1}, floor},
		{"Large", core.Size{Width: 900, Height: 700}, core.Size{Width: 900, Height: 700}},
		{"NaN", core.Size{Width: math.NaN(), Height: math.NaN()}, floor},
		{"Infinite", core.Size{Width: math.Inf(1), Height: math.Inf(-1)}, floor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestSize_ValidRejectsNonFinite(t *testing.T) {
	assert.False(t, core.Size{Width: math.NaN(), Height: 200}.Valid())
	assert.False(t, core.Size{Width: 300, Height: math.Inf(1)}.Valid())
	assert.True(t, core.Size{Width: 200, Height: 150}.Valid())
}

func TestPoint_Finite(t *testing.T) {
	assert.True(t, core.Point{X: -5, Y: 1e9}.Finite())
	assert.False(t, core.Point{X: math.NaN()}.Finite())
	assert.False(t, core.Point{Y: math.Inf(-1)}.Finite())
}
