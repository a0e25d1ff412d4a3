// Package distilgo extracts perceptual color palettes from images.
//
// Distilgo distills an image down to the handful of colors a human would
// name when describing it. A trained quantizer reduces the input to a
// working palette, every pixel votes for its nearest palette color, and
// perceptually indistinguishable entries (CIEDE2000) are merged before the
// result is ranked by pixel weight.
//
// # Quick Start
//
// Extract a palette from a file:
//
//	ctx := context.Background()
//	d, _ := distilgo.NeuQuant().Build()
//	p, err := d.FromFile(ctx, "photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range p {
//	    fmt.Println(e.Color.Hex(), e.Weight)
//	}
//
// Tune the pipeline via the builder:
//
//	d, _ := distilgo.NeuQuant().
//	    Colors(128).        // quantizer palette size
//	    Threshold(12).      // merge radius (CIEDE2000)
//	    MaxPixels(2000).    // downsampling budget
//	    Workers(4).         // mapping / batch concurrency
//	    Build()
//
// Batch extraction over many files:
//
//	for _, r := range d.FromFiles(ctx, paths) {
//	    if r.Err != nil {
//	        log.Printf("%s: %v", r.Path, r.Err)
//	        continue
//	    }
//	    process(r.Path, r.Palette)
//	}
//
// # Pipeline
//
// Extraction runs in four stages:
//
//  1. Train: a quantizer (NeuQuant or k-means) learns a working palette
//     from the input pixels.
//  2. Map: every pixel is assigned to its nearest palette color, in
//     parallel.
//  3. Merge: entries closer than the threshold (CIEDE2000 by default) are
//     folded together as weighted averages.
//  4. Rank: the surviving entries are sorted by descending pixel weight.
//
// Weights are conserved end to end: the weights of the returned palette sum
// to the number of input pixels.
//
// # Image Input
//
// FromFile, FromReader and FromImage decode JPEG or PNG input, downsample
// it to a small pixel budget (default 1000 pixels) and drop uninteresting
// pixels: translucent ones, near-black and near-white ones. Pixel slices
// passed to Extract directly skip both steps.
//
// # Key Features
//
//   - NeuQuant competitive-learning quantizer (deterministic) and k-means
//     clustering backends
//   - CIEDE2000 and CIE76 perceptual merge metrics
//   - Parallel pixel mapping and bounded-concurrency batch extraction
//   - Palette persistence with pluggable backends (local, in-memory, S3,
//     MinIO) and similarity lookup
//   - PNG swatch rendering
package distilgo
