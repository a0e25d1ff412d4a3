package distilgo_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hupe1980/distilgo"
	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/distance"
	"github.com/hupe1980/distilgo/quantization"
	"github.com/hupe1980/distilgo/testutil"
)

func TestBuilder_NeuQuant_Basic(t *testing.T) {
	d, err := distilgo.NeuQuant().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	p, err := d.Extract(ctx, testutil.SolidPixels(colorspace.RGB{R: 200, G: 40, B: 40}, 50))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(p) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(p))
	}
	if p[0].Weight != 50 {
		t.Errorf("expected weight 50, got %d", p[0].Weight)
	}
}

func TestBuilder_NeuQuant_FullOptions(t *testing.T) {
	d, err := distilgo.NeuQuant().
		Colors(64).
		Cycles(50).
		LearningRate(0.3).
		LearningRateDecay(quantization.ScheduleLinear).
		Radius(4).
		RadiusDecay(quantization.ScheduleLinear).
		SampleStride(2).
		RandomInit(42).
		Threshold(12).
		Metric(distance.MetricCIE76).
		Workers(2).
		MaxPixels(500).
		PixelFilter(4, 251).
		KeepAllPixels().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if d.Threshold() != 12 {
		t.Errorf("expected threshold 12, got %v", d.Threshold())
	}
	if d.Metric() != distance.MetricCIE76 {
		t.Errorf("expected CIE76 metric, got %v", d.Metric())
	}

	ctx := context.Background()
	rng := testutil.NewRNG(4711)

	p, err := d.Extract(ctx, rng.Pixels(200))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if p.TotalWeight() != 200 {
		t.Errorf("expected total weight 200, got %d", p.TotalWeight())
	}
}

func TestBuilder_NeuQuant_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		builder distilgo.NeuQuantBuilder
		param   string
	}{
		{name: "colors", builder: distilgo.NeuQuant().Colors(0), param: "colors"},
		{name: "cycles", builder: distilgo.NeuQuant().Cycles(0), param: "cycles"},
		{name: "learning rate", builder: distilgo.NeuQuant().LearningRate(0), param: "learning rate"},
		{name: "radius", builder: distilgo.NeuQuant().Radius(-2), param: "radius"},
		{name: "sample stride", builder: distilgo.NeuQuant().SampleStride(0), param: "sample stride"},
		{name: "decay schedule", builder: distilgo.NeuQuant().LearningRateDecay(quantization.Schedule(9)), param: "decay schedule"},
		{name: "threshold", builder: distilgo.NeuQuant().Threshold(-1), param: "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()

			var ic *distilgo.ErrInvalidConfiguration
			if !errors.As(err, &ic) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			if ic.Param != tt.param {
				t.Errorf("expected param %q, got %q", tt.param, ic.Param)
			}
		})
	}
}

func TestBuilder_NeuQuant_RandomInitDeterministic(t *testing.T) {
	ctx := context.Background()

	rng := testutil.NewRNG(4711)
	pixels := rng.ClusteredPixels(300, []colorspace.RGB{
		{R: 220, G: 30, B: 30},
		{R: 30, G: 30, B: 220},
	}, 6)

	extract := func() []colorspace.RGB {
		d, err := distilgo.NeuQuant().RandomInit(42).Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		p, err := d.Extract(ctx, pixels)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		return p.Colors()
	}

	first := extract()
	second := extract()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical palettes for a fixed seed, got %v vs %v", first, second)
	}
}

func TestBuilder_KMeans_Basic(t *testing.T) {
	d, err := distilgo.KMeans().
		Colors(8).
		DeltaThreshold(0.005).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	rng := testutil.NewRNG(4711)
	pixels := rng.ClusteredPixels(300, []colorspace.RGB{
		{R: 220, G: 30, B: 30},
		{R: 30, G: 200, B: 60},
		{R: 30, G: 60, B: 220},
	}, 6)

	p, err := d.Extract(ctx, pixels)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(p) == 0 {
		t.Fatal("expected a non-empty palette")
	}
	if p.TotalWeight() != 300 {
		t.Errorf("expected total weight 300, got %d", p.TotalWeight())
	}
}

func TestBuilder_KMeans_Invalid(t *testing.T) {
	_, err := distilgo.KMeans().DeltaThreshold(1.5).Build()

	var ic *distilgo.ErrInvalidConfiguration
	if !errors.As(err, &ic) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if ic.Param != "delta threshold" {
		t.Errorf("expected param %q, got %q", "delta threshold", ic.Param)
	}
}

func TestBuilder_MustBuild_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustBuild to panic on invalid config")
		}
	}()

	// Invalid palette size should cause panic
	_ = distilgo.NeuQuant().Colors(0).MustBuild()
}

func TestBuilder_Immutable(t *testing.T) {
	base := distilgo.NeuQuant()
	derived := base.Colors(0)

	if _, err := base.Build(); err != nil {
		t.Errorf("base builder should be unaffected by derived configuration: %v", err)
	}
	if _, err := derived.Build(); err == nil {
		t.Error("derived builder should carry the invalid configuration")
	}
}
