// Package distance provides perceptual color difference metrics.
//
// All metrics operate on CIE L*a*b* coordinates (colorspace.Lab) and return
// a non-negative, symmetric difference where 0 means identical colors.
//
// # Supported Metrics
//
//   - MetricCIEDE2000: the CIEDE2000 formula (default). Accounts for the
//     eye's uneven sensitivity across lightness, chroma and hue; a value
//     around 2.3 corresponds to a just-noticeable difference.
//   - MetricCIE76: plain Euclidean distance in L*a*b*. Cheaper, less
//     perceptually uniform, overestimates differences between saturated
//     colors.
//
// # Usage
//
//	fn, err := distance.Provider(distance.MetricCIEDE2000)
//	d := fn(a.Lab(), b.Lab())
package distance
