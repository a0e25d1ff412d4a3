package colorspace

import (
	"fmt"
	"image/color"
)

// RGB is an 8-bit sRGB color. It is the pixel and palette color
// representation used across the library.
//
// RGB implements image/color.Color, so values can be handed directly to
// drawing and encoding code. The zero value is black.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA implements color.Color. The color is fully opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = 0xffff
	return
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// FromColor converts any color.Color to RGB, discarding alpha.
// Alpha-premultiplied channels are used as-is (not un-premultiplied).
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Average returns the weighted mean of a and b, each channel rounded to the
// nearest valid 8-bit value. A non-positive total weight returns a unchanged.
func Average(a, b RGB, wa, wb int) RGB {
	total := wa + wb
	if total <= 0 {
		return a
	}
	fa, fb, ft := float64(wa), float64(wb), float64(total)
	return RGB{
		R: roundChannel((float64(a.R)*fa + float64(b.R)*fb) / ft),
		G: roundChannel((float64(a.G)*fa + float64(b.G)*fb) / ft),
		B: roundChannel((float64(a.B)*fa + float64(b.B)*fb) / ft),
	}
}

// roundChannel rounds to the nearest channel value, clamped to [0, 255].
func roundChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
