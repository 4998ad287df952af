package generator

import (
	"fmt"
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Waveform selects the LFO shape.
type Waveform int

const (
	WaveSaw Waveform = iota
	WaveSquare
	WaveTriangle
	WaveSampleHold
)

// LFO is a low-frequency control oscillator producing values in
// [-depth, +depth]. Its phase comes from the sample clock, so two LFOs with
// the same settings agree sample for sample.
type LFO struct {
	oscillator
	depth    float64
	waveform Waveform
}

func NewLFO(rateHz, depth float64, waveform Waveform) (*LFO, error) {
	o, err := newOscillator(rateHz)
	if err != nil {
		return nil, err
	}
	if waveform < WaveSaw || waveform > WaveSampleHold {
		return nil, fmt.Errorf("waveform %d: %w", waveform, ErrInvalidConfig)
	}
	return &LFO{oscillator: o, depth: depth, waveform: waveform}, nil
}

// SetDepth changes the modulation depth.
func (l *LFO) SetDepth(depth float64) { l.depth = depth }

// Generate returns a one-channel frame that is valid until the next call.
func (l *LFO) Generate(t timing.SampleTiming) frame.Frame {
	if l.depth == 0 {
		return l.emit(0)
	}
	phase := l.cycles(t)
	var v float64
	switch l.waveform {
	case WaveSaw:
		v = 1 - 2*phase
	case WaveSquare:
		if phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	case WaveSampleHold:
		v = holdValue(uint64(float64(t.Clock) * l.frequency / t.SampleRate))
	default:
		if phase < 0.5 {
			v = 4*phase - 1
		} else {
			v = 3 - 4*phase
		}
	}
	return l.emit(v * l.depth)
}

// holdValue hashes a cycle index to a value in [-1, 1).
func holdValue(cycle uint64) float64 {
	h := math.Sin(float64(cycle)*12345.6789+67890.1234) * 43758.5453
	h -= math.Floor(h)
	return h*2 - 1
}
