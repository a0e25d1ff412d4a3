package distance

import (
	"math"

	"github.com/hupe1980/distilgo/colorspace"
)

// pow25_7 is 25^7, a constant of the CIEDE2000 chroma compensation terms.
const pow25_7 = 6103515625.0

// CIEDE2000 calculates the CIEDE2000 color difference (Sharma et al. 2005
// formulation, kL = kC = kH = 1).
//
// The formula compensates for the eye's non-uniform sensitivity: neutral
// chroma compression (G term), hue-dependent weighting (T term) and a
// rotation term (RT) that corrects the blue region. Achromatic inputs
// (black, white, grays) take the defined zero-chroma conventions, so the
// result is always finite.
func CIEDE2000(x, y colorspace.Lab) float64 {
	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	cAvg := (c1 + c2) / 2

	// Chroma compensation: shift a* toward higher chroma for neutral colors.
	cAvg7 := pow7(cAvg)
	g := 0.5 * (1 - math.Sqrt(cAvg7/(cAvg7+pow25_7)))

	a1p := (1 + g) * x.A
	a2p := (1 + g) * y.A

	c1p := math.Hypot(a1p, x.B)
	c2p := math.Hypot(a2p, y.B)

	h1p := hueDegrees(x.B, a1p)
	h2p := hueDegrees(y.B, a2p)

	dLp := y.L - x.L
	dCp := c2p - c1p

	// Hue difference, shortest way around the circle. Undefined hues
	// (zero chroma on either side) contribute nothing.
	var dhp float64
	switch {
	case c1p*c2p == 0:
		dhp = 0
	case math.Abs(h2p-h1p) <= 180:
		dhp = h2p - h1p
	case h2p-h1p > 180:
		dhp = h2p - h1p - 360
	default:
		dhp = h2p - h1p + 360
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(radians(dhp)/2)

	lAvg := (x.L + y.L) / 2
	cpAvg := (c1p + c2p) / 2

	var hpAvg float64
	switch {
	case c1p*c2p == 0:
		hpAvg = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		hpAvg = (h1p + h2p) / 2
	case h1p+h2p < 360:
		hpAvg = (h1p + h2p + 360) / 2
	default:
		hpAvg = (h1p + h2p - 360) / 2
	}

	t := 1 -
		0.17*math.Cos(radians(hpAvg-30)) +
		0.24*math.Cos(radians(2*hpAvg)) +
		0.32*math.Cos(radians(3*hpAvg+6)) -
		0.20*math.Cos(radians(4*hpAvg-63))

	l50sq := (lAvg - 50) * (lAvg - 50)
	sl := 1 + 0.015*l50sq/math.Sqrt(20+l50sq)
	sc := 1 + 0.045*cpAvg
	sh := 1 + 0.015*cpAvg*t

	// Rotation term, active around hue 275° (blue).
	dTheta := 30 * math.Exp(-((hpAvg-275)/25)*((hpAvg-275)/25))
	cpAvg7 := pow7(cpAvg)
	rc := 2 * math.Sqrt(cpAvg7/(cpAvg7+pow25_7))
	rt := -math.Sin(radians(2*dTheta)) * rc

	dL := dLp / sl
	dC := dCp / sc
	dH := dHp / sh

	return math.Sqrt(dL*dL + dC*dC + dH*dH + rt*dC*dH)
}

// hueDegrees returns the hue angle of (ap, b) in degrees within [0, 360),
// or 0 when both components are zero (hue undefined).
func hueDegrees(b, ap float64) float64 {
	if b == 0 && ap == 0 {
		return 0
	}
	h := math.Atan2(b, ap) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func pow7(v float64) float64 {
	v3 := v * v * v
	return v3 * v3 * v
}
