package distilgo

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/distance"
	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/quantization"
)

// QuantizerFactory produces a fresh, untrained quantizer for each extraction.
// Quantizers freeze after training, so the Distiller constructs one per input
// rather than sharing a trained instance across images.
type QuantizerFactory func() (quantization.Quantizer, error)

// Distiller extracts perceptual color palettes from pixel data and images.
//
// The pipeline has four stages: a quantizer is trained on the input and maps
// every pixel to its nearest palette color, the mapped indexes are counted
// into weights, perceptually close entries are merged, and the result is
// ranked by weight.
//
// A Distiller is safe for concurrent use; each extraction trains its own
// quantizer.
type Distiller struct {
	factory QuantizerFactory
	merger  *palette.Merger
	opts    options
}

// New creates a Distiller from a quantizer factory.
//
// The factory is probed once to surface configuration errors at construction
// time rather than on first use. Most callers should prefer the fluent
// builders NeuQuant() and KMeans() over calling New directly.
func New(factory QuantizerFactory, optFns ...Option) (*Distiller, error) {
	if factory == nil {
		return nil, &ErrInvalidConfiguration{Param: "quantizer factory", cause: errors.New("factory must not be nil")}
	}

	o := applyOptions(optFns)

	if o.maxPixels <= 0 {
		return nil, &ErrInvalidConfiguration{Param: "max pixels", cause: errors.New("max pixels must be positive")}
	}

	q, err := factory()
	if err != nil {
		return nil, translateError(err)
	}
	if q == nil {
		return nil, &ErrInvalidConfiguration{Param: "quantizer factory", cause: errors.New("factory returned nil quantizer")}
	}
	if q.IsTrained() {
		return nil, &ErrInvalidConfiguration{Param: "quantizer factory", cause: quantization.ErrAlreadyTrained}
	}

	merger, err := palette.NewMerger(o.threshold, func(mo *palette.MergerOptions) {
		mo.Metric = o.metric
	})
	if err != nil {
		if errors.Is(err, palette.ErrInvalidThreshold) {
			return nil, &ErrInvalidConfiguration{Param: "threshold", cause: err}
		}
		return nil, &ErrInvalidConfiguration{Param: "metric", cause: err}
	}

	return &Distiller{
		factory: factory,
		merger:  merger,
		opts:    o,
	}, nil
}

// Extract distills a ranked palette from raw pixels.
//
// The pixels are used as-is: no downsampling and no interesting-pixel
// filtering is applied (use FromImage and friends for that). An empty input
// yields an empty palette, not an error. The sum of the returned weights
// equals len(pixels).
func (d *Distiller) Extract(ctx context.Context, pixels []colorspace.RGB) (palette.Palette, error) {
	start := time.Now()

	result, err := d.extract(ctx, pixels)

	d.opts.metricsCollector.RecordExtract(len(pixels), len(result), time.Since(start), err)
	d.opts.logger.LogExtract(ctx, len(pixels), len(result), err)

	return result, err
}

func (d *Distiller) extract(ctx context.Context, pixels []colorspace.RGB) (palette.Palette, error) {
	if len(pixels) == 0 {
		return palette.Palette{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := d.factory()
	if err != nil {
		return nil, translateError(err)
	}

	if err := q.Train(pixels); err != nil {
		return nil, translateError(err)
	}

	quantized, err := quantization.MapAll(ctx, q, pixels, d.opts.workers)
	if err != nil {
		return nil, err
	}

	raw := palette.Count(quantized, q.Palette())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return palette.Rank(d.merger.Merge(raw)), nil
}

// Threshold returns the configured merge threshold.
func (d *Distiller) Threshold() float64 {
	return d.merger.Threshold()
}

// Metric returns the configured perceptual metric.
func (d *Distiller) Metric() distance.Metric {
	return d.merger.Metric()
}
