// Package distance provides public API for perceptual color difference
// calculations on CIE L*a*b* coordinates.
package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/distilgo/colorspace"
)

// CIE76 calculates the CIE 1976 color difference: Euclidean distance in
// L*a*b* space. Fast but not perceptually uniform in saturated regions.
func CIE76(a, b colorspace.Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// Metric represents the perceptual metric used for color comparison.
type Metric int

const (
	MetricCIEDE2000 Metric = iota
	MetricCIE76
)

func (m Metric) String() string {
	switch m {
	case MetricCIEDE2000:
		return "CIEDE2000"
	case MetricCIE76:
		return "CIE76"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for color difference calculation.
type Func func(a, b colorspace.Lab) float64

// Provider returns the difference function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricCIEDE2000:
		return CIEDE2000, nil
	case MetricCIE76:
		return CIE76, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
