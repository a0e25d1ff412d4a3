package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/distilgo/colorspace"
)

func TestRank(t *testing.T) {
	p := Palette{
		{Color: colorspace.RGB{R: 1}, Weight: 2},
		{Color: colorspace.RGB{R: 2}, Weight: 9},
		{Color: colorspace.RGB{R: 3}, Weight: 5},
	}

	ranked := Rank(p)

	assert.Equal(t, Palette{
		{Color: colorspace.RGB{R: 2}, Weight: 9},
		{Color: colorspace.RGB{R: 3}, Weight: 5},
		{Color: colorspace.RGB{R: 1}, Weight: 2},
	}, ranked)

	// The input order is untouched.
	assert.Equal(t, 2, p[0].Weight)
}

func TestRank_StableTies(t *testing.T) {
	p := Palette{
		{Color: colorspace.RGB{R: 1}, Weight: 3},
		{Color: colorspace.RGB{R: 2}, Weight: 7},
		{Color: colorspace.RGB{R: 3}, Weight: 3},
	}

	ranked := Rank(p)

	assert.Equal(t, colorspace.RGB{R: 2}, ranked[0].Color)
	assert.Equal(t, colorspace.RGB{R: 1}, ranked[1].Color, "ties keep insertion order")
	assert.Equal(t, colorspace.RGB{R: 3}, ranked[2].Color)
}

func TestRank_Idempotent(t *testing.T) {
	p := Palette{
		{Color: colorspace.RGB{R: 1}, Weight: 4},
		{Color: colorspace.RGB{R: 2}, Weight: 4},
		{Color: colorspace.RGB{R: 3}, Weight: 8},
	}

	once := Rank(p)
	twice := Rank(once)

	assert.Equal(t, once, twice)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank(Palette{}))
}
