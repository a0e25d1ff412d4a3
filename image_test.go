package distilgo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, encodePNG(t, img), 0o600))

	return path
}

func TestDecode(t *testing.T) {
	red := colorspace.RGB{R: 255}

	t.Run("PNG", func(t *testing.T) {
		data := encodePNG(t, testutil.SolidImage(8, 8, red))

		img, format, err := decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 8, img.Bounds().Dx())
	})

	t.Run("JPEG", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, testutil.SolidImage(8, 8, red), nil))

		_, format, err := decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("GIF", func(t *testing.T) {
		_, _, err := decode(bytes.NewReader([]byte("GIF89a\x01\x00\x01\x00")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, _, err := decode(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := decode(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestInteresting(t *testing.T) {
	tests := []struct {
		name  string
		p     colorspace.RGB
		alpha uint8
		want  bool
	}{
		{name: "opaque mid-tone", p: colorspace.RGB{R: 100, G: 100, B: 100}, alpha: 255, want: true},
		{name: "translucent", p: colorspace.RGB{R: 100, G: 100, B: 100}, alpha: 254, want: false},
		{name: "near black", p: colorspace.RGB{R: 7, G: 7, B: 7}, alpha: 255, want: false},
		{name: "one bright channel", p: colorspace.RGB{R: 7, G: 7, B: 200}, alpha: 255, want: true},
		{name: "near white", p: colorspace.RGB{R: 250, G: 250, B: 250}, alpha: 255, want: false},
		{name: "one dark channel", p: colorspace.RGB{R: 250, G: 250, B: 100}, alpha: 255, want: true},
		{name: "boundary black", p: colorspace.RGB{R: 8, G: 8, B: 8}, alpha: 255, want: true},
		{name: "boundary white", p: colorspace.RGB{R: 247, G: 247, B: 247}, alpha: 255, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interesting(tt.p, tt.alpha, DefaultMinBlack, DefaultMaxWhite)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistiller_FromImage(t *testing.T) {
	ctx := context.Background()
	red := colorspace.RGB{R: 255}
	blue := colorspace.RGB{B: 255}

	t.Run("Stripes", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		// 50x20 = 1000 pixels, exactly at the budget: no downsampling.
		p, err := d.FromImage(ctx, testutil.StripeImage(50, 20, red, blue))
		require.NoError(t, err)

		require.Len(t, p, 2)
		assert.Equal(t, 1000, p.TotalWeight())
		assert.Contains(t, p, palette.Entry{Color: red, Weight: 500})
		assert.Contains(t, p, palette.Entry{Color: blue, Weight: 500})
	})

	t.Run("Downsamples", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		p, err := d.FromImage(ctx, testutil.SolidImage(200, 100, red))
		require.NoError(t, err)

		require.Len(t, p, 1)
		assert.Equal(t, red, p[0].Color)
		assert.LessOrEqual(t, p[0].Weight, 1000)
		assert.Greater(t, p[0].Weight, 900)
	})

	t.Run("Uninteresting", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		white := colorspace.RGB{R: 255, G: 255, B: 255}
		_, err = d.FromImage(ctx, testutil.SolidImage(10, 10, white))
		assert.ErrorIs(t, err, ErrUninteresting)
	})

	t.Run("KeepAllPixels", func(t *testing.T) {
		d, err := NeuQuant().KeepAllPixels().Build()
		require.NoError(t, err)

		white := colorspace.RGB{R: 255, G: 255, B: 255}
		p, err := d.FromImage(ctx, testutil.SolidImage(10, 10, white))
		require.NoError(t, err)

		require.Len(t, p, 1)
		assert.Equal(t, palette.Entry{Color: white, Weight: 100}, p[0])
	})

	t.Run("TranslucentPixelsDropped", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
		for y := range 10 {
			for x := range 10 {
				if x < 5 {
					img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 128})
				} else {
					img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
				}
			}
		}

		p, err := d.FromImage(ctx, img)
		require.NoError(t, err)

		require.Len(t, p, 1)
		assert.Equal(t, palette.Entry{Color: blue, Weight: 50}, p[0])
	})
}

func TestDistiller_FromReader(t *testing.T) {
	ctx := context.Background()

	t.Run("PNG", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		data := encodePNG(t, testutil.SolidImage(10, 10, colorspace.RGB{R: 200, G: 30, B: 40}))

		p, err := d.FromReader(ctx, bytes.NewReader(data))
		require.NoError(t, err)

		require.Len(t, p, 1)
		assert.Equal(t, palette.Entry{Color: colorspace.RGB{R: 200, G: 30, B: 40}, Weight: 100}, p[0])
	})

	t.Run("JPEG", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, testutil.SolidImage(30, 30, colorspace.RGB{R: 200, G: 30, B: 40}), nil))

		p, err := d.FromReader(ctx, &buf)
		require.NoError(t, err)

		// JPEG is lossy; the dominant color survives within a small delta.
		require.Len(t, p, 1)
		assert.Equal(t, 900, p[0].Weight)
		assert.InDelta(t, 200, int(p[0].Color.R), 8)
		assert.InDelta(t, 30, int(p[0].Color.G), 8)
		assert.InDelta(t, 40, int(p[0].Color.B), 8)
	})

	t.Run("Unsupported", func(t *testing.T) {
		d, err := NeuQuant().Build()
		require.NoError(t, err)

		_, err = d.FromReader(ctx, bytes.NewReader([]byte("GIF89a")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestDistiller_FromFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	red := colorspace.RGB{R: 255}
	path := writePNG(t, dir, "red.png", testutil.SolidImage(10, 10, red))

	d, err := NeuQuant().Build()
	require.NoError(t, err)

	t.Run("OK", func(t *testing.T) {
		p, err := d.FromFile(ctx, path)
		require.NoError(t, err)

		require.Len(t, p, 1)
		assert.Equal(t, palette.Entry{Color: red, Weight: 100}, p[0])
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := d.FromFile(ctx, filepath.Join(dir, "missing.png"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("WrongFormat", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

		_, err := d.FromFile(ctx, path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestDistiller_FromFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	red := colorspace.RGB{R: 255}
	blue := colorspace.RGB{B: 255}

	redPath := writePNG(t, dir, "red.png", testutil.SolidImage(10, 10, red))
	bluePath := writePNG(t, dir, "blue.png", testutil.SolidImage(10, 10, blue))
	missingPath := filepath.Join(dir, "missing.png")

	garbagePath := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(garbagePath, []byte{0xde, 0xad, 0xbe, 0xef}, 0o600))

	metrics := &BasicMetricsCollector{}
	d, err := NeuQuant().Workers(2).Metrics(metrics).Build()
	require.NoError(t, err)

	results := d.FromFiles(ctx, []string{redPath, bluePath, missingPath, garbagePath})
	require.Len(t, results, 4)

	// Results are index-aligned with the input paths.
	assert.Equal(t, redPath, results[0].Path)
	require.NoError(t, results[0].Err)
	assert.Equal(t, palette.Entry{Color: red, Weight: 100}, results[0].Palette[0])

	assert.Equal(t, bluePath, results[1].Path)
	require.NoError(t, results[1].Err)
	assert.Equal(t, palette.Entry{Color: blue, Weight: 100}, results[1].Palette[0])

	assert.ErrorIs(t, results[2].Err, fs.ErrNotExist)
	assert.ErrorIs(t, results[3].Err, ErrUnsupportedFormat)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BatchCount)
	assert.Equal(t, int64(4), stats.BatchFiles)
	assert.Equal(t, int64(2), stats.BatchFailed)
}
