// Package swatch renders palettes as color strip images.
//
// A swatch is one colored cell per palette entry, laid out left to right in
// palette order. With ranked palettes the heaviest color comes first.
//
//	img, err := swatch.Render(p)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Proportional mode sizes each cell by its share of the total weight, which
// makes dominant colors visually dominant:
//
//	err := swatch.SavePNG("palette.png", p, func(o *swatch.Options) {
//		o.Proportional = true
//	})
package swatch
