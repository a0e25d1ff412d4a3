package distilgo

import (
	"log/slog"

	"github.com/hupe1980/distilgo/distance"
)

// Defaults match the behavior tuned for photographic input: palettes merge at
// a CIEDE2000 distance of 10, images are downsampled to roughly 1000 pixels,
// and near-black/near-white pixels are filtered out before training.
const (
	// DefaultColors is the palette size quantizers are trained with by the
	// fluent builders.
	DefaultColors = 256

	// DefaultThreshold is the perceptual distance below which palette
	// entries are merged.
	DefaultThreshold = 10.0

	// DefaultMaxPixels is the pixel budget images are downsampled to before
	// extraction.
	DefaultMaxPixels = 1000

	// DefaultMinBlack is the exclusive lower bound of the pixel filter:
	// pixels with all channels below it are considered uninteresting.
	DefaultMinBlack = 8

	// DefaultMaxWhite is the exclusive upper bound of the pixel filter:
	// pixels with all channels above it are considered uninteresting.
	DefaultMaxWhite = 247
)

type options struct {
	threshold        float64
	metric           distance.Metric
	workers          int
	maxPixels        int
	minBlack         uint8
	maxWhite         uint8
	keepAll          bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Distiller behavior.
type Option func(*options)

// WithThreshold configures the perceptual distance below which palette
// entries are merged into one. Zero merges only exact duplicates; larger
// values produce smaller, coarser palettes.
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithMetric configures the perceptual color difference metric used for
// merging. The default is distance.MetricCIEDE2000.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers configures the number of goroutines used for parallel pixel
// mapping and batch file extraction. Values <= 0 use runtime.GOMAXPROCS(0).
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithMaxPixels configures the pixel budget for downsampling. Images with
// more pixels are resized (preserving aspect ratio) before extraction.
// Pixel slices passed directly to Extract are never downsampled.
func WithMaxPixels(maxPixels int) Option {
	return func(o *options) {
		o.maxPixels = maxPixels
	}
}

// WithPixelFilter configures the bounds of the interesting-pixel filter.
// A pixel is dropped when all channels are below minBlack or all channels
// are above maxWhite.
func WithPixelFilter(minBlack, maxWhite uint8) Option {
	return func(o *options) {
		o.minBlack = minBlack
		o.maxWhite = maxWhite
	}
}

// WithKeepAllPixels disables the interesting-pixel filter entirely:
// translucent, near-black and near-white pixels all contribute to the
// palette.
func WithKeepAllPixels() Option {
	return func(o *options) {
		o.keepAll = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &distilgo.BasicMetricsCollector{}
//	d, _ := distilgo.New(factory, distilgo.WithMetricsCollector(metrics))
//	// ... use d ...
//	stats := metrics.GetStats()
//	fmt.Printf("Extracts: %d, Avg latency: %dns\n", stats.ExtractCount, stats.ExtractAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := distilgo.NewJSONLogger(slog.LevelInfo)
//	d, _ := distilgo.New(factory, distilgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threshold:        DefaultThreshold,
		metric:           distance.MetricCIEDE2000,
		maxPixels:        DefaultMaxPixels,
		minBlack:         DefaultMinBlack,
		maxWhite:         DefaultMaxWhite,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
