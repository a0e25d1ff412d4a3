// Package palette turns quantized pixel indexes into ranked color palettes.
//
// The stages compose in a fixed order:
//
//	raw := palette.Count(indexes, quantizer.Palette())
//	merger, _ := palette.NewMerger(10.0)
//	refined := merger.Merge(raw)
//	ranked := palette.Rank(refined)
//
// Count tabulates how many pixels mapped to each color table entry. Merge
// folds perceptually indistinguishable entries together, averaging their
// colors by weight. Rank orders the result by weight. Every stage conserves
// the total weight, so the final palette still accounts for each quantized
// pixel exactly once.
//
// Merge is deliberately order-dependent: entries are folded in raw-palette
// order (heaviest first, as produced by Count), and each merge updates the
// refined color immediately. Re-running the stages on the same input gives
// identical output.
package palette
