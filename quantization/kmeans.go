package quantization

import (
	"errors"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/hupe1980/distilgo/colorspace"
)

// ErrInvalidDeltaThreshold is returned when the k-means convergence
// threshold is outside (0, 1).
var ErrInvalidDeltaThreshold = errors.New("delta threshold must be in range (0, 1)")

// KMeansOptions configures the k-means quantizer.
type KMeansOptions struct {
	// DeltaThreshold stops iterating once fewer than this fraction of
	// observations change cluster between rounds, in (0, 1).
	DeltaThreshold float64
}

// DefaultKMeansOptions returns the default k-means configuration.
func DefaultKMeansOptions() KMeansOptions {
	return KMeansOptions{
		DeltaThreshold: 0.01,
	}
}

// KMeans clusters the distinct colors of the pixel buffer with Lloyd's
// algorithm. Compared to NeuQuant it trades reproducibility for data-driven
// centroids: centroid seeding is randomized, so runs over the same buffer can
// differ, and the fitted palette may hold fewer colors than requested when
// the buffer has fewer distinct colors.
type KMeans struct {
	colors   int
	clusters clusters.Clusters
	palette  []colorspace.RGB
	trained  bool
	opts     KMeansOptions
}

// NewKMeans creates a k-means color quantizer with at most colors clusters.
func NewKMeans(colors int, optFns ...func(o *KMeansOptions)) (*KMeans, error) {
	opts := DefaultKMeansOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if colors < 1 || colors > 256 {
		return nil, ErrInvalidColors
	}

	if opts.DeltaThreshold <= 0 || opts.DeltaThreshold >= 1 {
		return nil, ErrInvalidDeltaThreshold
	}

	return &KMeans{
		colors: colors,
		opts:   opts,
	}, nil
}

// Train partitions the distinct colors of the pixel buffer into clusters.
// Like every Quantizer it is one-shot; an empty buffer freezes the quantizer
// with an empty palette.
func (km *KMeans) Train(pixels []colorspace.RGB) error {
	if km.trained {
		return ErrAlreadyTrained
	}
	km.trained = true

	if len(pixels) == 0 {
		return nil
	}

	// One observation per distinct color: Partition rejects k larger than
	// the observation count, and duplicates only skew the iteration cost.
	seen := make(map[colorspace.RGB]struct{}, len(pixels))

	var observations clusters.Observations
	for _, p := range pixels {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}

		observations = append(observations, clusters.Coordinates{
			float64(p.R), float64(p.G), float64(p.B),
		})
	}

	k := min(km.colors, len(observations))

	m, err := kmeans.NewWithOptions(km.opts.DeltaThreshold, nil)
	if err != nil {
		return err
	}

	cc, err := m.Partition(observations, k)
	if err != nil {
		return err
	}

	km.clusters = cc

	km.palette = make([]colorspace.RGB, len(cc))
	for i, c := range cc {
		km.palette[i] = colorspace.RGB{
			R: clampChannel(c.Center[0]),
			G: clampChannel(c.Center[1]),
			B: clampChannel(c.Center[2]),
		}
	}

	return nil
}

// Map returns the index of the cluster whose center is nearest to p.
// Before training, or after training on an empty buffer, it returns 0.
func (km *KMeans) Map(p colorspace.RGB) int {
	if len(km.clusters) == 0 {
		return 0
	}

	return km.clusters.Nearest(clusters.Coordinates{
		float64(p.R), float64(p.G), float64(p.B),
	})
}

// Palette returns the fitted cluster centers rounded to 8-bit channels.
func (km *KMeans) Palette() []colorspace.RGB {
	palette := make([]colorspace.RGB, len(km.palette))
	copy(palette, km.palette)

	return palette
}

// Colors returns the requested cluster count. The fitted palette may be
// smaller; see Palette.
func (km *KMeans) Colors() int {
	return km.colors
}

// IsTrained reports whether the quantizer is frozen.
func (km *KMeans) IsTrained() bool {
	return km.trained
}
