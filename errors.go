package distilgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/quantization"
)

var (
	// ErrUnsupportedFormat is returned when image data is neither JPEG nor PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format (only JPEG and PNG are supported)")

	// ErrUninteresting is returned when the pixel filter rejects every pixel of
	// an image, leaving nothing to extract a palette from.
	ErrUninteresting = errors.New("image has no interesting pixels")
)

// ErrInvalidConfiguration indicates a rejected constructor or builder parameter.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfiguration struct {
	Param string
	cause error
}

func (e *ErrInvalidConfiguration) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Param, e.cause)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Param)
}

func (e *ErrInvalidConfiguration) Unwrap() error { return e.cause }

// translateError normalizes errors from the quantization and palette packages
// into the configuration error surface of this package. Errors it does not
// recognize pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, quantization.ErrInvalidColors):
		return &ErrInvalidConfiguration{Param: "colors", cause: err}
	case errors.Is(err, quantization.ErrInvalidCycles):
		return &ErrInvalidConfiguration{Param: "cycles", cause: err}
	case errors.Is(err, quantization.ErrInvalidLearningRate):
		return &ErrInvalidConfiguration{Param: "learning rate", cause: err}
	case errors.Is(err, quantization.ErrInvalidRadius):
		return &ErrInvalidConfiguration{Param: "radius", cause: err}
	case errors.Is(err, quantization.ErrInvalidStride):
		return &ErrInvalidConfiguration{Param: "sample stride", cause: err}
	case errors.Is(err, quantization.ErrInvalidSchedule):
		return &ErrInvalidConfiguration{Param: "decay schedule", cause: err}
	case errors.Is(err, quantization.ErrInvalidDeltaThreshold):
		return &ErrInvalidConfiguration{Param: "delta threshold", cause: err}
	case errors.Is(err, palette.ErrInvalidThreshold):
		return &ErrInvalidConfiguration{Param: "threshold", cause: err}
	}

	return err
}
