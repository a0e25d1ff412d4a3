package palette

import (
	"slices"

	"github.com/hupe1980/distilgo/colorspace"
)

// Count tabulates quantized pixel indexes into a raw palette. Each index
// refers to an entry of the color table; table colors never mapped by any
// pixel do not appear. Entries are ordered by descending weight, ties by
// ascending table index, and the total weight equals len(quantized).
func Count(quantized []int, colors []colorspace.RGB) Palette {
	if len(quantized) == 0 {
		return Palette{}
	}

	counts := make([]int, len(colors))
	for _, idx := range quantized {
		counts[idx]++
	}

	raw := make(Palette, 0, len(colors))
	for i, n := range counts {
		if n == 0 {
			continue
		}

		raw = append(raw, Entry{Color: colors[i], Weight: n})
	}

	// Stable: equal weights keep ascending index order.
	slices.SortStableFunc(raw, func(a, b Entry) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})

	return raw
}
