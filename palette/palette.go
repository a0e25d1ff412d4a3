package palette

import (
	"github.com/hupe1980/distilgo/colorspace"
)

// Entry is one palette color together with the number of quantized pixels it
// represents.
type Entry struct {
	Color  colorspace.RGB `json:"color"`
	Weight int            `json:"weight"`
}

// Palette is an ordered list of palette entries.
type Palette []Entry

// TotalWeight returns the sum of all entry weights.
func (p Palette) TotalWeight() int {
	var total int
	for _, e := range p {
		total += e.Weight
	}

	return total
}

// Colors returns the palette colors in entry order.
func (p Palette) Colors() []colorspace.RGB {
	colors := make([]colorspace.RGB, len(p))
	for i, e := range p {
		colors[i] = e.Color
	}

	return colors
}
