package distilgo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/palette"
)

var (
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	pngMagic  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
)

// decode sniffs the leading magic bytes and decodes JPEG or PNG data.
// Anything else fails with ErrUnsupportedFormat without consuming the reader.
func decode(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(8)
	if err != nil && err != io.EOF {
		return nil, "", err
	}

	switch {
	case len(magic) >= len(jpegMagic) && bytes.Equal(magic[:len(jpegMagic)], jpegMagic):
		img, err := jpeg.Decode(br)
		return img, "jpeg", err
	case len(magic) >= len(pngMagic) && bytes.Equal(magic[:len(pngMagic)], pngMagic):
		img, err := png.Decode(br)
		return img, "png", err
	}

	return nil, "", ErrUnsupportedFormat
}

// FromImage extracts the palette of a decoded image.
//
// The image is downsampled to the configured pixel budget and filtered for
// interesting pixels first. If the filter rejects every pixel, FromImage
// returns ErrUninteresting.
func (d *Distiller) FromImage(ctx context.Context, img image.Image) (palette.Palette, error) {
	pixels, err := d.interestingPixels(img)
	if err != nil {
		return nil, err
	}

	return d.Extract(ctx, pixels)
}

// FromReader decodes JPEG or PNG data from r and extracts its palette.
func (d *Distiller) FromReader(ctx context.Context, r io.Reader) (palette.Palette, error) {
	start := time.Now()

	img, format, err := decode(r)

	d.opts.metricsCollector.RecordDecode(format, time.Since(start), err)
	if err != nil {
		d.opts.logger.LogDecode(ctx, format, 0, 0, err)
		return nil, err
	}

	bounds := img.Bounds()
	d.opts.logger.LogDecode(ctx, format, bounds.Dx(), bounds.Dy(), nil)

	return d.FromImage(ctx, img)
}

// FromFile extracts the palette of a JPEG or PNG file.
func (d *Distiller) FromFile(ctx context.Context, path string) (palette.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("distilgo: %w", err)
	}
	defer f.Close()

	p, err := d.FromReader(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("distilgo: %s: %w", path, err)
	}

	return p, nil
}

// FileResult pairs one input path with its extracted palette or error.
type FileResult struct {
	Path    string
	Palette palette.Palette
	Err     error
}

// FromFiles extracts palettes from multiple files concurrently, bounded by
// the configured worker count. The returned slice is index-aligned with
// paths; per-file failures land in FileResult.Err and do not abort the
// remaining files.
func (d *Distiller) FromFiles(ctx context.Context, paths []string) []FileResult {
	start := time.Now()
	results := make([]FileResult, len(paths))

	workers := d.opts.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g := errgroup.Group{}
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			p, err := d.FromFile(ctx, path)
			results[i] = FileResult{Path: path, Palette: p, Err: err}
			return nil
		})
	}

	_ = g.Wait() // failures are reported per file

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	d.opts.metricsCollector.RecordBatch(len(paths), failed, time.Since(start))
	d.opts.logger.LogBatch(ctx, len(paths), failed)

	return results
}

// interestingPixels downsamples img to the pixel budget and collects the
// pixels that survive the interesting-pixel filter.
func (d *Distiller) interestingPixels(img image.Image) ([]colorspace.RGB, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w*h > d.opts.maxPixels {
		ratio := float64(w) / float64(h)
		scaledW := int(math.Sqrt(ratio * float64(d.opts.maxPixels)))
		if scaledW < 1 {
			scaledW = 1
		}
		img = imaging.Resize(img, scaledW, 0, imaging.Gaussian)
	}

	nrgba := imaging.Clone(img)

	pixels := make([]colorspace.RGB, 0, len(nrgba.Pix)/4)
	for i := 0; i+3 < len(nrgba.Pix); i += 4 {
		p := colorspace.RGB{R: nrgba.Pix[i], G: nrgba.Pix[i+1], B: nrgba.Pix[i+2]}
		if !d.opts.keepAll && !interesting(p, nrgba.Pix[i+3], d.opts.minBlack, d.opts.maxWhite) {
			continue
		}
		pixels = append(pixels, p)
	}

	if len(pixels) == 0 {
		return nil, ErrUninteresting
	}

	return pixels, nil
}

// interesting reports whether a pixel should contribute to the palette.
// Translucent pixels and pixels entirely below minBlack or entirely above
// maxWhite are dropped.
func interesting(p colorspace.RGB, alpha, minBlack, maxWhite uint8) bool {
	if alpha != 255 {
		return false
	}
	if p.R < minBlack && p.G < minBlack && p.B < minBlack {
		return false
	}
	if p.R > maxWhite && p.G > maxWhite && p.B > maxWhite {
		return false
	}
	return true
}
