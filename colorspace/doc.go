// Package colorspace provides the color value types used throughout distilgo.
//
// RGB is an 8-bit sRGB triple, the representation of pixels and palette
// colors. Lab is CIE L*a*b* under the D65 illuminant (2° observer), the
// space in which perceptual distances are computed.
//
// # Conversion
//
//	lab := colorspace.RGB{R: 255, G: 0, B: 0}.Lab()
//	back := lab.RGB() // channel-clamped, rounded to nearest
//
// Round-tripping RGB -> Lab -> RGB reproduces every channel within ±1.
package colorspace
