package quantization

import (
	"fmt"
	"math"
)

// Schedule identifies a decay curve applied to a training parameter over the
// course of a training run.
type Schedule int

const (
	// ScheduleExponential decays v0 * 0.01^x, where x is the normalized
	// training progress in [0, 1].
	ScheduleExponential Schedule = iota

	// ScheduleLinear decays v0 * (1 - x).
	ScheduleLinear
)

// String returns a human-readable name for the schedule.
func (s Schedule) String() string {
	switch s {
	case ScheduleExponential:
		return "Exponential"
	case ScheduleLinear:
		return "Linear"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// decayFunc evaluates a training parameter with initial value v0 at
// normalized progress x in [0, 1].
type decayFunc func(v0, x float64) float64

func exponentialDecay(v0, x float64) float64 {
	return v0 * math.Pow(0.01, x)
}

func linearDecay(v0, x float64) float64 {
	return v0 * (1 - x)
}

// scheduleProvider returns the decay function for the given schedule.
func scheduleProvider(s Schedule) (decayFunc, error) {
	switch s {
	case ScheduleExponential:
		return exponentialDecay, nil
	case ScheduleLinear:
		return linearDecay, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, s)
	}
}
