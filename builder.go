package distilgo

import (
	"github.com/hupe1980/distilgo/distance"
	"github.com/hupe1980/distilgo/quantization"
)

// =============================================================================
// NeuQuant Builder (Immutable)
// =============================================================================

// NeuQuant creates a builder for a Distiller backed by the NeuQuant
// competitive-learning quantizer. NeuQuant is deterministic and handles
// photographic input well.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	d, err := distilgo.NeuQuant().
//	    Colors(128).
//	    Threshold(12).
//	    Workers(4).
//	    Build()
func NeuQuant() NeuQuantBuilder {
	defaults := quantization.DefaultNeuQuantOptions()
	return NeuQuantBuilder{
		colors:            DefaultColors,
		cycles:            defaults.Cycles,
		learningRate:      defaults.LearningRate,
		learningRateDecay: defaults.LearningRateDecay,
		radius:            defaults.Radius,
		radiusDecay:       defaults.RadiusDecay,
		sampleStride:      defaults.SampleStride,
		threshold:         DefaultThreshold,
		metric:            distance.MetricCIEDE2000,
		maxPixels:         DefaultMaxPixels,
		minBlack:          DefaultMinBlack,
		maxWhite:          DefaultMaxWhite,
	}
}

// NeuQuantBuilder is an immutable fluent builder for NeuQuant-based
// Distiller instances. Each method returns a new builder with the updated
// configuration.
type NeuQuantBuilder struct {
	colors            int
	cycles            int
	learningRate      float64
	learningRateDecay quantization.Schedule
	radius            int
	radiusDecay       quantization.Schedule
	sampleStride      int
	randomSeed        *int64
	threshold         float64
	metric            distance.Metric
	workers           int
	maxPixels         int
	minBlack          uint8
	maxWhite          uint8
	keepAll           bool
	logger            *Logger
	metrics           MetricsCollector
}

// Colors sets the number of palette colors the quantizer trains.
// More colors resolve finer detail before merging collapses them.
// Default: 256. Must be in [1, 256].
func (b NeuQuantBuilder) Colors(n int) NeuQuantBuilder {
	b.colors = n
	return b
}

// Cycles sets the number of passes over the sampled pixels during training.
// Higher values improve convergence but slow down extraction.
// Default: 100.
func (b NeuQuantBuilder) Cycles(n int) NeuQuantBuilder {
	b.cycles = n
	return b
}

// LearningRate sets the initial learning rate in (0, 1].
// Default: 0.5.
func (b NeuQuantBuilder) LearningRate(rate float64) NeuQuantBuilder {
	b.learningRate = rate
	return b
}

// LearningRateDecay sets the decay schedule applied to the learning rate
// over the course of training.
// Default: quantization.ScheduleExponential.
func (b NeuQuantBuilder) LearningRateDecay(s quantization.Schedule) NeuQuantBuilder {
	b.learningRateDecay = s
	return b
}

// Radius sets the initial neighborhood radius. Neurons within the radius of
// the winner move toward the sample with quadratic falloff.
// Default: quantization.RadiusAuto (colors/8).
func (b NeuQuantBuilder) Radius(r int) NeuQuantBuilder {
	b.radius = r
	return b
}

// RadiusDecay sets the decay schedule applied to the neighborhood radius
// over the course of training.
// Default: quantization.ScheduleExponential.
func (b NeuQuantBuilder) RadiusDecay(s quantization.Schedule) NeuQuantBuilder {
	b.radiusDecay = s
	return b
}

// SampleStride trains on every n-th pixel only.
// Default: 1 (every pixel). Values > 1 trade quality for speed.
func (b NeuQuantBuilder) SampleStride(n int) NeuQuantBuilder {
	b.sampleStride = n
	return b
}

// RandomInit seeds the network with random colors instead of a grayscale
// spread. Extraction stays deterministic for a fixed seed.
func (b NeuQuantBuilder) RandomInit(seed int64) NeuQuantBuilder {
	b.randomSeed = &seed
	return b
}

// Threshold sets the perceptual distance below which palette entries merge.
// Default: 10.
func (b NeuQuantBuilder) Threshold(threshold float64) NeuQuantBuilder {
	b.threshold = threshold
	return b
}

// Metric sets the perceptual color difference metric used for merging.
// Default: distance.MetricCIEDE2000.
func (b NeuQuantBuilder) Metric(m distance.Metric) NeuQuantBuilder {
	b.metric = m
	return b
}

// Workers sets the goroutine count for pixel mapping and batch extraction.
// Default: runtime.GOMAXPROCS(0).
func (b NeuQuantBuilder) Workers(n int) NeuQuantBuilder {
	b.workers = n
	return b
}

// MaxPixels sets the downsampling budget for image input.
// Default: 1000.
func (b NeuQuantBuilder) MaxPixels(n int) NeuQuantBuilder {
	b.maxPixels = n
	return b
}

// PixelFilter sets the bounds of the interesting-pixel filter.
// Default: 8 and 247.
func (b NeuQuantBuilder) PixelFilter(minBlack, maxWhite uint8) NeuQuantBuilder {
	b.minBlack = minBlack
	b.maxWhite = maxWhite
	return b
}

// KeepAllPixels disables the interesting-pixel filter entirely.
func (b NeuQuantBuilder) KeepAllPixels() NeuQuantBuilder {
	b.keepAll = true
	return b
}

// Logger sets the structured logger for operation tracing.
func (b NeuQuantBuilder) Logger(l *Logger) NeuQuantBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b NeuQuantBuilder) Metrics(mc MetricsCollector) NeuQuantBuilder {
	b.metrics = mc
	return b
}

// Build creates the NeuQuant-based Distiller instance.
func (b NeuQuantBuilder) Build() (*Distiller, error) {
	var progress func(step, total int)
	if b.logger != nil {
		progress = newTrainProgress(b.logger)
	}

	factory := func() (quantization.Quantizer, error) {
		return quantization.NewNeuQuant(b.colors, func(o *quantization.NeuQuantOptions) {
			o.Cycles = b.cycles
			o.LearningRate = b.learningRate
			o.LearningRateDecay = b.learningRateDecay
			o.Radius = b.radius
			o.RadiusDecay = b.radiusDecay
			o.SampleStride = b.sampleStride
			if b.randomSeed != nil {
				o.Init = quantization.InitRandom
				o.Seed = *b.randomSeed
			}
			o.OnProgress = progress
		})
	}

	distillerOpts := []Option{
		WithThreshold(b.threshold),
		WithMetric(b.metric),
		WithMaxPixels(b.maxPixels),
		WithPixelFilter(b.minBlack, b.maxWhite),
	}
	if b.workers > 0 {
		distillerOpts = append(distillerOpts, WithWorkers(b.workers))
	}
	if b.keepAll {
		distillerOpts = append(distillerOpts, WithKeepAllPixels())
	}
	if b.logger != nil {
		distillerOpts = append(distillerOpts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		distillerOpts = append(distillerOpts, WithMetricsCollector(b.metrics))
	}

	return New(factory, distillerOpts...)
}

// MustBuild creates the Distiller instance, panicking on error.
func (b NeuQuantBuilder) MustBuild() *Distiller {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// KMeans Builder (Immutable)
// =============================================================================

// KMeans creates a builder for a Distiller backed by k-means clustering over
// the distinct input colors. KMeans produces tighter centroids than NeuQuant
// on synthetic input but is not deterministic (centers are seeded randomly).
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	d, err := distilgo.KMeans().
//	    Colors(16).
//	    DeltaThreshold(0.005).
//	    Build()
func KMeans() KMeansBuilder {
	defaults := quantization.DefaultKMeansOptions()
	return KMeansBuilder{
		colors:         DefaultColors,
		deltaThreshold: defaults.DeltaThreshold,
		threshold:      DefaultThreshold,
		metric:         distance.MetricCIEDE2000,
		maxPixels:      DefaultMaxPixels,
		minBlack:       DefaultMinBlack,
		maxWhite:       DefaultMaxWhite,
	}
}

// KMeansBuilder is an immutable fluent builder for k-means-based Distiller
// instances. Each method returns a new builder with the updated
// configuration.
type KMeansBuilder struct {
	colors         int
	deltaThreshold float64
	threshold      float64
	metric         distance.Metric
	workers        int
	maxPixels      int
	minBlack       uint8
	maxWhite       uint8
	keepAll        bool
	logger         *Logger
	metrics        MetricsCollector
}

// Colors sets the number of clusters.
// Default: 256. Must be in [1, 256].
func (b KMeansBuilder) Colors(n int) KMeansBuilder {
	b.colors = n
	return b
}

// DeltaThreshold sets the fraction of observations that may still change
// cluster before clustering is considered converged. Must be in (0, 1).
// Default: 0.01.
func (b KMeansBuilder) DeltaThreshold(dt float64) KMeansBuilder {
	b.deltaThreshold = dt
	return b
}

// Threshold sets the perceptual distance below which palette entries merge.
// Default: 10.
func (b KMeansBuilder) Threshold(threshold float64) KMeansBuilder {
	b.threshold = threshold
	return b
}

// Metric sets the perceptual color difference metric used for merging.
// Default: distance.MetricCIEDE2000.
func (b KMeansBuilder) Metric(m distance.Metric) KMeansBuilder {
	b.metric = m
	return b
}

// Workers sets the goroutine count for pixel mapping and batch extraction.
// Default: runtime.GOMAXPROCS(0).
func (b KMeansBuilder) Workers(n int) KMeansBuilder {
	b.workers = n
	return b
}

// MaxPixels sets the downsampling budget for image input.
// Default: 1000.
func (b KMeansBuilder) MaxPixels(n int) KMeansBuilder {
	b.maxPixels = n
	return b
}

// PixelFilter sets the bounds of the interesting-pixel filter.
// Default: 8 and 247.
func (b KMeansBuilder) PixelFilter(minBlack, maxWhite uint8) KMeansBuilder {
	b.minBlack = minBlack
	b.maxWhite = maxWhite
	return b
}

// KeepAllPixels disables the interesting-pixel filter entirely.
func (b KMeansBuilder) KeepAllPixels() KMeansBuilder {
	b.keepAll = true
	return b
}

// Logger sets the structured logger for operation tracing.
func (b KMeansBuilder) Logger(l *Logger) KMeansBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b KMeansBuilder) Metrics(mc MetricsCollector) KMeansBuilder {
	b.metrics = mc
	return b
}

// Build creates the k-means-based Distiller instance.
func (b KMeansBuilder) Build() (*Distiller, error) {
	factory := func() (quantization.Quantizer, error) {
		return quantization.NewKMeans(b.colors, func(o *quantization.KMeansOptions) {
			o.DeltaThreshold = b.deltaThreshold
		})
	}

	distillerOpts := []Option{
		WithThreshold(b.threshold),
		WithMetric(b.metric),
		WithMaxPixels(b.maxPixels),
		WithPixelFilter(b.minBlack, b.maxWhite),
	}
	if b.workers > 0 {
		distillerOpts = append(distillerOpts, WithWorkers(b.workers))
	}
	if b.keepAll {
		distillerOpts = append(distillerOpts, WithKeepAllPixels())
	}
	if b.logger != nil {
		distillerOpts = append(distillerOpts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		distillerOpts = append(distillerOpts, WithMetricsCollector(b.metrics))
	}

	return New(factory, distillerOpts...)
}

// MustBuild creates the Distiller instance, panicking on error.
func (b KMeansBuilder) MustBuild() *Distiller {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
