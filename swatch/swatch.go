package swatch

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/hupe1980/distilgo/palette"
)

// ErrEmptyPalette is returned when rendering a palette with no entries.
var ErrEmptyPalette = errors.New("empty palette")

// Options configure swatch rendering.
type Options struct {
	// CellSize is the cell height and the base cell width in pixels.
	CellSize int

	// MaxEntries caps how many entries are rendered, in palette order.
	// Zero or negative renders all entries.
	MaxEntries int

	// Proportional sizes cell widths by weight share instead of uniformly.
	Proportional bool
}

// Render draws one colored cell per palette entry, in palette order, and
// returns the strip as an image.
func Render(p palette.Palette, optFns ...func(o *Options)) (image.Image, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}

	opts := Options{
		CellSize:   80,
		MaxEntries: 8,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.CellSize <= 0 {
		return nil, fmt.Errorf("swatch: cell size must be positive, got %d", opts.CellSize)
	}

	entries := p
	if opts.MaxEntries > 0 && len(entries) > opts.MaxEntries {
		entries = entries[:opts.MaxEntries]
	}

	widths := cellWidths(entries, opts)

	var total int
	for _, w := range widths {
		total += w
	}

	dc := gg.NewContext(total, opts.CellSize)

	var x float64
	for i, e := range entries {
		dc.SetColor(e.Color)
		dc.DrawRectangle(x, 0, float64(widths[i]), float64(opts.CellSize))
		dc.Fill()

		x += float64(widths[i])
	}

	return dc.Image(), nil
}

// cellWidths returns the pixel width of each cell. Proportional strips keep
// the same total width as a uniform strip; every cell gets at least one
// pixel, with rounding absorbed by the last cell.
func cellWidths(entries palette.Palette, opts Options) []int {
	widths := make([]int, len(entries))

	weightSum := entries.TotalWeight()

	if !opts.Proportional || weightSum <= 0 {
		for i := range widths {
			widths[i] = opts.CellSize
		}

		return widths
	}

	total := opts.CellSize * len(entries)

	var used int
	for i, e := range entries {
		if i == len(entries)-1 {
			widths[i] = max(1, total-used)
			break
		}

		w := max(1, total*e.Weight/weightSum)
		widths[i] = w
		used += w
	}

	return widths
}

// SavePNG renders a palette strip and writes it to path as PNG.
func SavePNG(path string, p palette.Palette, optFns ...func(o *Options)) error {
	img, err := Render(p, optFns...)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("swatch: create %s: %w", path, err)
	}

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()

		return fmt.Errorf("swatch: encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("swatch: close %s: %w", path, err)
	}

	return nil
}
