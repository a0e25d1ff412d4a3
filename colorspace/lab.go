package colorspace

import "math"

// Lab is a color in CIE L*a*b* space under the D65 illuminant (2° observer).
// L is lightness in [0, 100]; A and B are the green-red and blue-yellow
// opponent axes, unbounded in theory and roughly [-128, 128] for sRGB input.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// D65 reference white.
const (
	refX = 0.95047
	refY = 1.00000
	refZ = 1.08883
)

// CIE standard constants: epsilon = (6/29)^3, kappa = (29/3)^3.
const (
	labEpsilon = 216.0 / 24389.0
	labKappa   = 24389.0 / 27.0
)

// Lab converts the color to CIE L*a*b* via linear sRGB and XYZ (D65).
func (c RGB) Lab() Lab {
	r := linearize(float64(c.R) / 255.0)
	g := linearize(float64(c.G) / 255.0)
	b := linearize(float64(c.B) / 255.0)

	// sRGB (D65) to XYZ.
	x := 0.4124564*r + 0.3575761*g + 0.1804375*b
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := 0.0193339*r + 0.1191920*g + 0.9503041*b

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	return Lab{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// RGB converts back to 8-bit sRGB. Out-of-gamut values are clamped and each
// channel is rounded to the nearest valid value.
func (l Lab) RGB() RGB {
	fy := (l.L + 16.0) / 116.0
	fx := fy + l.A/500.0
	fz := fy - l.B/200.0

	x := refX * labFInv(fx)
	z := refZ * labFInv(fz)

	var y float64
	if l.L > labKappa*labEpsilon {
		y = refY * fy * fy * fy
	} else {
		y = refY * l.L / labKappa
	}

	// XYZ to linear sRGB (D65).
	r := 3.2404542*x - 1.5371385*y - 0.4985314*z
	g := -0.9692660*x + 1.8760108*y + 0.0415560*z
	b := 0.0556434*x - 0.2040259*y + 1.0572252*z

	return RGB{
		R: roundChannel(delinearize(r) * 255.0),
		G: roundChannel(delinearize(g) * 255.0),
		B: roundChannel(delinearize(b) * 255.0),
	}
}

// linearize removes the sRGB gamma companding from a [0, 1] channel.
func linearize(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// delinearize applies sRGB gamma companding to a linear [0, 1] channel.
func delinearize(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16.0) / 116.0
}

func labFInv(f float64) float64 {
	if f3 := f * f * f; f3 > labEpsilon {
		return f3
	}
	return (116.0*f - 16.0) / labKappa
}
