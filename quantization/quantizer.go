package quantization

import (
	"errors"

	"github.com/hupe1980/distilgo/colorspace"
)

var (
	// ErrInvalidColors is returned when the palette size is out of range.
	ErrInvalidColors = errors.New("colors must be in range [1, 256]")

	// ErrInvalidCycles is returned when the training cycle count is not positive.
	ErrInvalidCycles = errors.New("cycles must be positive")

	// ErrInvalidLearningRate is returned when the initial learning rate is
	// outside (0, 1].
	ErrInvalidLearningRate = errors.New("learning rate must be in range (0, 1]")

	// ErrInvalidRadius is returned when the neighborhood radius is negative.
	ErrInvalidRadius = errors.New("radius must not be negative")

	// ErrInvalidStride is returned when the sample stride is not positive.
	ErrInvalidStride = errors.New("sample stride must be positive")

	// ErrInvalidSchedule is returned when a decay schedule is unknown.
	ErrInvalidSchedule = errors.New("unknown decay schedule")

	// ErrAlreadyTrained is returned when Train is called on a frozen quantizer.
	ErrAlreadyTrained = errors.New("quantizer is already trained")
)

// Quantizer reduces a pixel stream to a small set of representative colors.
type Quantizer interface {
	// Train calibrates the quantizer on a pixel buffer. It may be called at
	// most once; afterwards the color table is frozen. An empty buffer is a
	// valid no-op that still freezes the quantizer.
	Train(pixels []colorspace.RGB) error

	// Map returns the index of the representative color closest to p.
	// The result is always in [0, Colors()-1]. Safe for concurrent use
	// once training is done.
	Map(p colorspace.RGB) int

	// Palette returns the representative colors, rounded to 8-bit channels.
	Palette() []colorspace.RGB

	// Colors returns the size of the color table.
	Colors() int

	// IsTrained reports whether Train has been called.
	IsTrained() bool
}
