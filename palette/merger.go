package palette

import (
	"errors"
	"math"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/distance"
)

// ErrInvalidThreshold is returned when the merge threshold is negative.
var ErrInvalidThreshold = errors.New("threshold must not be negative")

// MergerOptions configures the perceptual merger.
type MergerOptions struct {
	// Metric selects the color difference formula.
	Metric distance.Metric
}

// DefaultMergerOptions returns the default merger configuration.
func DefaultMergerOptions() MergerOptions {
	return MergerOptions{
		Metric: distance.MetricCIEDE2000,
	}
}

// Merger folds perceptually close palette entries together.
type Merger struct {
	threshold float64
	distFn    distance.Func
	opts      MergerOptions
}

// NewMerger creates a merger that combines entries whose color difference is
// at or below threshold.
func NewMerger(threshold float64, optFns ...func(o *MergerOptions)) (*Merger, error) {
	opts := DefaultMergerOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if threshold < 0 || math.IsNaN(threshold) {
		return nil, ErrInvalidThreshold
	}

	distFn, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	return &Merger{
		threshold: threshold,
		distFn:    distFn,
		opts:      opts,
	}, nil
}

// Merge folds the raw palette in order. Each entry joins the refined entry at
// minimum perceptual distance if that distance is at or below the threshold
// (first-seen wins exact ties); otherwise it starts a new refined entry.
// Joining averages the colors by weight immediately, so later entries compare
// against the merged color, not the original. New entries keep their relative
// order; total weight is conserved.
func (m *Merger) Merge(raw Palette) Palette {
	if len(raw) == 0 {
		return Palette{}
	}

	refined := make(Palette, 0, len(raw))
	labs := make([]colorspace.Lab, 0, len(raw))

	for _, e := range raw {
		lab := e.Color.Lab()

		best := -1
		bestDist := 0.0
		for i, rl := range labs {
			if d := m.distFn(rl, lab); best < 0 || d < bestDist {
				best = i
				bestDist = d
			}
		}

		if best < 0 || bestDist > m.threshold {
			refined = append(refined, e)
			labs = append(labs, lab)

			continue
		}

		merged := &refined[best]
		merged.Color = colorspace.Average(merged.Color, e.Color, merged.Weight, e.Weight)
		merged.Weight += e.Weight
		labs[best] = merged.Color.Lab()
	}

	return refined
}

// Threshold returns the configured merge threshold.
func (m *Merger) Threshold() float64 {
	return m.threshold
}

// Metric returns the configured distance metric.
func (m *Merger) Metric() distance.Metric {
	return m.opts.Metric
}
