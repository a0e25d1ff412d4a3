package testutil

import (
	"image"
	"math/rand"
	"sync"

	"github.com/hupe1980/distilgo/colorspace"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Pixels generates n pixels drawn uniformly from the RGB cube.
func (r *RNG) Pixels(n int) []colorspace.RGB {
	r.mu.Lock()
	defer r.mu.Unlock()

	pixels := make([]colorspace.RGB, n)
	for i := range pixels {
		pixels[i] = colorspace.RGB{
			R: uint8(r.rand.Intn(256)),
			G: uint8(r.rand.Intn(256)),
			B: uint8(r.rand.Intn(256)),
		}
	}

	return pixels
}

// ClusteredPixels generates n pixels jittered around the given center colors,
// assigned round-robin. spread is the maximum absolute per-channel deviation;
// channels are clamped to the valid range.
func (r *RNG) ClusteredPixels(n int, centers []colorspace.RGB, spread int) []colorspace.RGB {
	r.mu.Lock()
	defer r.mu.Unlock()

	pixels := make([]colorspace.RGB, n)
	for i := range pixels {
		c := centers[i%len(centers)]
		pixels[i] = colorspace.RGB{
			R: jitter(r.rand, c.R, spread),
			G: jitter(r.rand, c.G, spread),
			B: jitter(r.rand, c.B, spread),
		}
	}

	return pixels
}

func jitter(rng *rand.Rand, v uint8, spread int) uint8 {
	if spread <= 0 {
		return v
	}

	x := int(v) + rng.Intn(2*spread+1) - spread
	if x < 0 {
		x = 0
	}
	if x > 255 {
		x = 255
	}

	return uint8(x)
}

// SolidPixels returns n copies of the given color.
func SolidPixels(c colorspace.RGB, n int) []colorspace.RGB {
	pixels := make([]colorspace.RGB, n)
	for i := range pixels {
		pixels[i] = c
	}

	return pixels
}

// SolidImage returns a w x h image filled with the given color, fully opaque.
func SolidImage(w, h int, c colorspace.RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}

	return img
}

// StripeImage returns a w x h image of equal-width vertical stripes, one per
// color from left to right. The rightmost stripe absorbs any remainder.
func StripeImage(w, h int, colors ...colorspace.RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if len(colors) == 0 {
		return img
	}

	stripe := w / len(colors)
	if stripe < 1 {
		stripe = 1
	}

	for x := range w {
		idx := x / stripe
		if idx >= len(colors) {
			idx = len(colors) - 1
		}

		for y := range h {
			img.Set(x, y, colors[idx])
		}
	}

	return img
}
