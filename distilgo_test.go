package distilgo

import (
	"context"
	"testing"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/distance"
	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/quantization"
	"github.com/hupe1980/distilgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neuQuantFactory(colors int) QuantizerFactory {
	return func() (quantization.Quantizer, error) {
		return quantization.NewNeuQuant(colors)
	}
}

func TestNew(t *testing.T) {
	t.Run("NilFactory", func(t *testing.T) {
		_, err := New(nil)

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "quantizer factory", ic.Param)
	})

	t.Run("FactoryError", func(t *testing.T) {
		_, err := New(neuQuantFactory(0))

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "colors", ic.Param)
		assert.ErrorIs(t, err, quantization.ErrInvalidColors)
	})

	t.Run("NilQuantizer", func(t *testing.T) {
		_, err := New(func() (quantization.Quantizer, error) {
			return nil, nil
		})

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "quantizer factory", ic.Param)
	})

	t.Run("TrainedQuantizer", func(t *testing.T) {
		_, err := New(func() (quantization.Quantizer, error) {
			nq, err := quantization.NewNeuQuant(4)
			if err != nil {
				return nil, err
			}
			if err := nq.Train([]colorspace.RGB{{R: 1}}); err != nil {
				return nil, err
			}
			return nq, nil
		})

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "quantizer factory", ic.Param)
		assert.ErrorIs(t, err, quantization.ErrAlreadyTrained)
	})

	t.Run("InvalidThreshold", func(t *testing.T) {
		_, err := New(neuQuantFactory(16), WithThreshold(-1))

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "threshold", ic.Param)
		assert.ErrorIs(t, err, palette.ErrInvalidThreshold)
	})

	t.Run("InvalidMetric", func(t *testing.T) {
		_, err := New(neuQuantFactory(16), WithMetric(distance.Metric(42)))

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "metric", ic.Param)
	})

	t.Run("InvalidMaxPixels", func(t *testing.T) {
		_, err := New(neuQuantFactory(16), WithMaxPixels(0))

		var ic *ErrInvalidConfiguration
		require.ErrorAs(t, err, &ic)
		assert.Equal(t, "max pixels", ic.Param)
	})

	t.Run("Defaults", func(t *testing.T) {
		d, err := New(neuQuantFactory(16))
		require.NoError(t, err)

		assert.Equal(t, float64(DefaultThreshold), d.Threshold())
		assert.Equal(t, distance.MetricCIEDE2000, d.Metric())
	})
}

func TestDistiller_Extract(t *testing.T) {
	ctx := context.Background()

	t.Run("RedWhite", func(t *testing.T) {
		d, err := New(neuQuantFactory(256))
		require.NoError(t, err)

		pixels := append(
			testutil.SolidPixels(colorspace.RGB{R: 255}, 60),
			testutil.SolidPixels(colorspace.RGB{R: 255, G: 255, B: 255}, 40)...,
		)

		p, err := d.Extract(ctx, pixels)
		require.NoError(t, err)

		require.Len(t, p, 2)
		assert.Equal(t, palette.Entry{Color: colorspace.RGB{R: 255}, Weight: 60}, p[0])
		assert.Equal(t, palette.Entry{Color: colorspace.RGB{R: 255, G: 255, B: 255}, Weight: 40}, p[1])
	})

	t.Run("MergesCloseShades", func(t *testing.T) {
		d, err := New(neuQuantFactory(256))
		require.NoError(t, err)

		// Three blues within the default merge threshold of each other.
		pixels := append(
			testutil.SolidPixels(colorspace.RGB{R: 10, G: 10, B: 250}, 20),
			testutil.SolidPixels(colorspace.RGB{R: 12, G: 12, B: 248}, 20)...,
		)
		pixels = append(pixels, testutil.SolidPixels(colorspace.RGB{R: 14, G: 14, B: 246}, 20)...)

		p, err := d.Extract(ctx, pixels)
		require.NoError(t, err)

		// All shades fold into their weighted mean regardless of how the
		// quantizer split them across neurons.
		require.Len(t, p, 1)
		assert.Equal(t, palette.Entry{Color: colorspace.RGB{R: 12, G: 12, B: 248}, Weight: 60}, p[0])
	})

	t.Run("Empty", func(t *testing.T) {
		d, err := New(neuQuantFactory(16))
		require.NoError(t, err)

		p, err := d.Extract(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, p)
		assert.Empty(t, p)
	})

	t.Run("WeightConservation", func(t *testing.T) {
		d, err := New(neuQuantFactory(64))
		require.NoError(t, err)

		rng := testutil.NewRNG(4711)
		pixels := rng.ClusteredPixels(500, []colorspace.RGB{
			{R: 220, G: 40, B: 30},
			{R: 30, G: 180, B: 90},
			{R: 40, G: 60, B: 210},
		}, 10)

		p, err := d.Extract(ctx, pixels)
		require.NoError(t, err)

		assert.Equal(t, 500, p.TotalWeight())
		for i := 1; i < len(p); i++ {
			assert.GreaterOrEqual(t, p[i-1].Weight, p[i].Weight)
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		d, err := New(neuQuantFactory(16))
		require.NoError(t, err)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = d.Extract(canceled, testutil.SolidPixels(colorspace.RGB{R: 1}, 10))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDistiller_Metrics(t *testing.T) {
	ctx := context.Background()

	metrics := &BasicMetricsCollector{}
	d, err := New(neuQuantFactory(16), WithMetricsCollector(metrics))
	require.NoError(t, err)

	_, err = d.Extract(ctx, testutil.SolidPixels(colorspace.RGB{R: 200}, 100))
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = d.Extract(canceled, testutil.SolidPixels(colorspace.RGB{R: 200}, 10))
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.ExtractCount)
	assert.Equal(t, int64(1), stats.ExtractErrors)
	assert.Equal(t, int64(110), stats.ExtractPixels)
}
