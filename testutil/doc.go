// Package testutil provides testing utilities for Distilgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random and clustered pixel data and
// for building small synthetic images with known color composition.
//
// # Random Pixel Generation
//
//	rng := testutil.NewRNG(seed)
//	pixels := rng.Pixels(1000)                              // uniform RGB cube
//	pixels = rng.ClusteredPixels(1000, centers, 8)          // jittered clusters
//
// # Synthetic Images
//
//	img := testutil.SolidImage(64, 64, colorspace.RGB{R: 255})
//	img = testutil.StripeImage(90, 30, red, green, blue)
package testutil
