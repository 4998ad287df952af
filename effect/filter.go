package effect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// FilterKind selects the spectral gain curve of a Filter.
type FilterKind int

const (
	LowPass FilterKind = iota
	HighPass
)

func (k FilterKind) String() string {
	switch k {
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	default:
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
}

// FilterConfig describes a block Filter. Length is the block size in samples.
type FilterConfig struct {
	Kind   FilterKind
	Cutoff float64
	Length int
}

func (c FilterConfig) Validate() error {
	if c.Kind != LowPass && c.Kind != HighPass {
		return fmt.Errorf("filter kind %v: %w", c.Kind, ErrInvalidConfig)
	}
	if !(c.Cutoff > 0) || math.IsInf(c.Cutoff, 0) {
		return fmt.Errorf("filter cutoff %v: %w", c.Cutoff, ErrInvalidConfig)
	}
	if c.Length <= 0 {
		return fmt.Errorf("filter length %d: %w", c.Length, ErrInvalidConfig)
	}
	return nil
}

// Filter is a mono block filter working in the frequency domain. It keeps the
// last Length samples of channel 0. Once the block is full, every tick it
// transforms the block, weights each bin by the cutoff curve, transforms back
// and emits the oldest sample of the filtered block, then drops that sample.
// Until the block is full it emits a mono zero.
//
// This is one output sample per full block, not overlap-add resynthesis.
type Filter struct {
	cfg   FilterConfig
	fft   *fourier.CmplxFFT
	block []float64
	head  int
	size  int
	seq   []complex128
	coeff []complex128
	gains []float64
	rate  float64
	out   [1]float64
}

func NewFilter(cfg FilterConfig) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Filter{
		cfg:   cfg,
		fft:   fourier.NewCmplxFFT(cfg.Length),
		block: make([]float64, cfg.Length),
		seq:   make([]complex128, cfg.Length),
		coeff: make([]complex128, cfg.Length),
		gains: make([]float64, cfg.Length),
	}, nil
}

func (f *Filter) Process(t timing.SampleTiming, in frame.Frame) frame.Frame {
	if in.IsNone() {
		return in
	}
	n := f.cfg.Length
	f.out[0] = 0
	if f.size == n {
		if t.SampleRate != f.rate {
			f.updateGains(t.SampleRate)
		}
		for i := 0; i < n; i++ {
			f.seq[i] = complex(f.block[(f.head+i)%n], 0)
		}
		f.coeff = f.fft.Coefficients(f.coeff, f.seq)
		for k, g := range f.gains {
			f.coeff[k] *= complex(g, 0)
		}
		// Sequence is unnormalized: it returns n times the time-domain block.
		f.seq = f.fft.Sequence(f.seq, f.coeff)
		f.out[0] = real(f.seq[0]) / float64(n)
		f.head = (f.head + 1) % n
		f.size--
	}
	f.block[(f.head+f.size)%n] = in[0]
	f.size++
	return f.out[:]
}

// updateGains recomputes the per-bin weights. Bins above n/2 are the mirrored
// negative frequencies and get the same weight as their positive twin.
func (f *Filter) updateGains(sampleRate float64) {
	n := f.cfg.Length
	for k := range f.gains {
		bin := k
		if k > n/2 {
			bin = n - k
		}
		ratio := math.Min(float64(bin)*sampleRate/float64(n)/f.cfg.Cutoff, 1)
		if f.cfg.Kind == LowPass {
			f.gains[k] = 1 - ratio
		} else {
			f.gains[k] = ratio
		}
	}
	f.rate = sampleRate
}
