package palette

import "slices"

// Rank returns the palette ordered by descending weight without mutating the
// input. Equal weights keep their relative order, so ranking is stable and
// idempotent.
func Rank(p Palette) Palette {
	ranked := make(Palette, len(p))
	copy(ranked, p)

	slices.SortStableFunc(ranked, func(a, b Entry) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})

	return ranked
}
