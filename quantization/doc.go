// Package quantization reduces pixel buffers to small color tables.
//
// Two quantizers are provided:
//
//   - NeuQuant: competitive-learning network (default, reproducible)
//   - KMeans: Lloyd's algorithm over distinct colors (randomized seeding)
//
// # NeuQuant
//
// A one-dimensional self-organizing network of up to 256 neurons. Training
// presents the pixel buffer repeatedly; per pixel the nearest neuron and a
// shrinking index neighborhood move toward it with a decaying step size:
//
//	nq, err := quantization.NewNeuQuant(256)
//	_ = nq.Train(pixels)
//	idx := nq.Map(pixel)       // nearest neuron index
//	colors := nq.Palette()     // rounded neuron colors
//
// Training is strictly sequential and one-shot: a second Train returns
// ErrAlreadyTrained. The frozen network is safe for concurrent mapping, and
// MarshalBinary persists it for reuse.
//
// Cycles, learning rate, radius and their decay schedules are configurable:
//
//	nq, err := quantization.NewNeuQuant(64, func(o *quantization.NeuQuantOptions) {
//	    o.Cycles = 50
//	    o.RadiusDecay = quantization.ScheduleLinear
//	})
//
// # KMeans
//
// Clusters the distinct colors of the buffer using github.com/muesli/kmeans.
// Centroids land on actual color mass rather than a fixed neuron layout, but
// seeding is randomized, so identical inputs can produce different palettes.
// Use NeuQuant when reproducibility matters.
//
// # Comparison
//
//	| Quantizer | Deterministic | Palette size      | Training cost        |
//	|-----------|---------------|-------------------|----------------------|
//	| NeuQuant  | Yes (by seed) | Exactly K neurons | Cycles * samples     |
//	| KMeans    | No            | <= K clusters     | Iterations to converge |
//
// # Parallel mapping
//
// MapAll shards a buffer across workers once the quantizer is frozen:
//
//	indexes, err := quantization.MapAll(ctx, nq, pixels, runtime.GOMAXPROCS(0))
package quantization
