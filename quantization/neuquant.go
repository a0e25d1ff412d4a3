package quantization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/hupe1980/distilgo/colorspace"
)

// RadiusAuto lets the constructor derive the initial neighborhood radius
// from the palette size (colors/8).
const RadiusAuto = -1

// Init identifies a neuron initialization strategy.
type Init int

const (
	// InitSpread lays the neurons evenly along the gray diagonal from black
	// to white, the classic NeuQuant layout.
	InitSpread Init = iota

	// InitRandom fills neuron weights from a seeded random sequence.
	// Deterministic for a given Seed.
	InitRandom
)

// String returns a human-readable name for the initialization strategy.
func (i Init) String() string {
	switch i {
	case InitSpread:
		return "Spread"
	case InitRandom:
		return "Random"
	default:
		return fmt.Sprintf("Unknown(%d)", int(i))
	}
}

// NeuQuantOptions configures a NeuQuant training run.
type NeuQuantOptions struct {
	// Cycles is the number of full passes over the sampled pixels.
	Cycles int

	// LearningRate is the initial step size toward a presented pixel, in (0, 1].
	LearningRate float64

	// LearningRateDecay selects the decay curve for the learning rate.
	LearningRateDecay Schedule

	// Radius is the initial neighborhood radius in neuron indices.
	// RadiusAuto resolves to colors/8; 0 disables neighborhood updates.
	Radius int

	// RadiusDecay selects the decay curve for the neighborhood radius.
	RadiusDecay Schedule

	// SampleStride presents every n-th pixel of the training buffer.
	SampleStride int

	// Init selects the neuron initialization strategy.
	Init Init

	// Seed seeds random initialization. Ignored for InitSpread.
	Seed int64

	// OnProgress, if set, is invoked after every training step with the
	// current step (1-based) and the total step count.
	OnProgress func(step, total int)
}

// DefaultNeuQuantOptions returns the default training configuration.
func DefaultNeuQuantOptions() NeuQuantOptions {
	return NeuQuantOptions{
		Cycles:            100,
		LearningRate:      0.5,
		LearningRateDecay: ScheduleExponential,
		Radius:            RadiusAuto,
		RadiusDecay:       ScheduleExponential,
		SampleStride:      1,
		Init:              InitSpread,
	}
}

// NeuQuant is a competitive-learning color quantizer in the style of
// Dekker's NeuQuant: a one-dimensional self-organizing network of up to 256
// neurons whose float-precision weights converge toward the dense regions of
// the pixel distribution. Training is strictly sequential and one-shot; once
// trained the network is frozen and safe for concurrent mapping.
type NeuQuant struct {
	colors  int
	network []float64 // colors*3 neuron weights, R G B per neuron
	trained bool
	opts    NeuQuantOptions

	alphaAt  decayFunc
	radiusAt decayFunc
}

// NewNeuQuant creates a NeuQuant network with the given palette size.
// Configuration is validated up front; an invalid option fails construction
// rather than the later Train call.
func NewNeuQuant(colors int, optFns ...func(o *NeuQuantOptions)) (*NeuQuant, error) {
	opts := DefaultNeuQuantOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if colors < 1 || colors > 256 {
		return nil, ErrInvalidColors
	}

	if opts.Cycles <= 0 {
		return nil, ErrInvalidCycles
	}

	if opts.LearningRate <= 0 || opts.LearningRate > 1 {
		return nil, ErrInvalidLearningRate
	}

	if opts.Radius == RadiusAuto {
		opts.Radius = colors / 8
	}

	if opts.Radius < 0 {
		return nil, ErrInvalidRadius
	}

	if opts.SampleStride < 1 {
		return nil, ErrInvalidStride
	}

	alphaAt, err := scheduleProvider(opts.LearningRateDecay)
	if err != nil {
		return nil, err
	}

	radiusAt, err := scheduleProvider(opts.RadiusDecay)
	if err != nil {
		return nil, err
	}

	nq := &NeuQuant{
		colors:   colors,
		network:  make([]float64, colors*3),
		opts:     opts,
		alphaAt:  alphaAt,
		radiusAt: radiusAt,
	}
	nq.initialize()

	return nq, nil
}

func (nq *NeuQuant) initialize() {
	if nq.opts.Init == InitRandom {
		rng := rand.New(rand.NewSource(nq.opts.Seed))
		for i := range nq.network {
			nq.network[i] = rng.Float64() * 255
		}

		return
	}

	for i := range nq.colors {
		v := 128.0
		if nq.colors > 1 {
			v = float64(i) * 255 / float64(nq.colors-1)
		}

		nq.network[i*3+0] = v
		nq.network[i*3+1] = v
		nq.network[i*3+2] = v
	}
}

// Train runs competitive learning over the pixel buffer: every SampleStride-th
// pixel is presented Cycles times in buffer order, and per presentation the
// winning neuron plus its index neighborhood move toward the pixel with
// decaying step size and radius. Train freezes the network even when the
// buffer is empty; a second call returns ErrAlreadyTrained.
func (nq *NeuQuant) Train(pixels []colorspace.RGB) error {
	if nq.trained {
		return ErrAlreadyTrained
	}
	nq.trained = true

	if len(pixels) == 0 {
		return nil
	}

	stride := nq.opts.SampleStride
	samples := (len(pixels) + stride - 1) / stride
	total := nq.opts.Cycles * samples

	step := 0
	for range nq.opts.Cycles {
		for i := 0; i < len(pixels); i += stride {
			x := float64(step) / float64(total)
			alpha := nq.alphaAt(nq.opts.LearningRate, x)
			radius := int(nq.radiusAt(float64(nq.opts.Radius), x))

			nq.learn(pixels[i], alpha, radius)

			step++
			if nq.opts.OnProgress != nil {
				nq.opts.OnProgress(step, total)
			}
		}
	}

	return nil
}

// learn presents a single pixel: the nearest neuron moves toward it by alpha,
// and neurons within radius indices follow with quadratic falloff.
func (nq *NeuQuant) learn(p colorspace.RGB, alpha float64, radius int) {
	r, g, b := float64(p.R), float64(p.G), float64(p.B)

	winner := nq.nearest(r, g, b)
	nq.move(winner, r, g, b, alpha)

	if radius <= 0 {
		return
	}

	rr := float64(radius * radius)
	for d := 1; d <= radius; d++ {
		factor := alpha * float64(radius*radius-d*d) / rr

		if lo := winner - d; lo >= 0 {
			nq.move(lo, r, g, b, factor)
		}

		if hi := winner + d; hi < nq.colors {
			nq.move(hi, r, g, b, factor)
		}
	}
}

func (nq *NeuQuant) move(i int, r, g, b, factor float64) {
	nq.network[i*3+0] += factor * (r - nq.network[i*3+0])
	nq.network[i*3+1] += factor * (g - nq.network[i*3+1])
	nq.network[i*3+2] += factor * (b - nq.network[i*3+2])
}

// nearest returns the neuron with minimum squared channel distance.
// Ties resolve to the lowest index.
func (nq *NeuQuant) nearest(r, g, b float64) int {
	best := 0
	bestDist := math.MaxFloat64

	for i := range nq.colors {
		dr := r - nq.network[i*3+0]
		dg := g - nq.network[i*3+1]
		db := b - nq.network[i*3+2]

		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}

	return best
}

// Map returns the index of the neuron nearest to p by squared channel
// distance. Valid before training (against the initial neuron layout) and
// safe for concurrent use once training is done.
func (nq *NeuQuant) Map(p colorspace.RGB) int {
	return nq.nearest(float64(p.R), float64(p.G), float64(p.B))
}

// Palette returns the neuron colors rounded to 8-bit channels.
func (nq *NeuQuant) Palette() []colorspace.RGB {
	palette := make([]colorspace.RGB, nq.colors)
	for i := range palette {
		palette[i] = colorspace.RGB{
			R: clampChannel(nq.network[i*3+0]),
			G: clampChannel(nq.network[i*3+1]),
			B: clampChannel(nq.network[i*3+2]),
		}
	}

	return palette
}

// Colors returns the neuron count.
func (nq *NeuQuant) Colors() int {
	return nq.colors
}

// IsTrained reports whether the network is frozen.
func (nq *NeuQuant) IsTrained() bool {
	return nq.trained
}

// MarshalBinary implements encoding.BinaryMarshaler so a trained network can
// be persisted and reused for mapping.
// Format (little-endian): [colors:uint32][trained:uint8][colors*3 weights:float64]
func (nq *NeuQuant) MarshalBinary() ([]byte, error) {
	b := make([]byte, 5+len(nq.network)*8)
	binary.LittleEndian.PutUint32(b[0:4], uint32(nq.colors))

	if nq.trained {
		b[4] = 1
	}

	for i, w := range nq.network {
		binary.LittleEndian.PutUint64(b[5+i*8:], math.Float64bits(w))
	}

	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The restored network
// carries default training options; an untrained restore can still be trained.
func (nq *NeuQuant) UnmarshalBinary(data []byte) error {
	if len(data) < 5 {
		return errors.New("invalid neuquant binary length")
	}

	colors := int(binary.LittleEndian.Uint32(data[0:4]))
	if colors < 1 || colors > 256 {
		return ErrInvalidColors
	}

	if len(data) != 5+colors*3*8 {
		return errors.New("invalid neuquant binary length")
	}

	network := make([]float64, colors*3)
	for i := range network {
		network[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[5+i*8:]))
	}

	opts := DefaultNeuQuantOptions()
	opts.Radius = colors / 8

	nq.colors = colors
	nq.network = network
	nq.trained = data[4] == 1
	nq.opts = opts
	nq.alphaAt = exponentialDecay
	nq.radiusAt = exponentialDecay

	return nil
}

// clampChannel rounds a float weight to the nearest valid 8-bit channel.
func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}

	if v >= 255 {
		return 255
	}

	return uint8(v + 0.5)
}
