package generator

import (
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Sine is a mono sine wave.
type Sine struct {
	oscillator
}

func NewSine(frequency float64) (*Sine, error) {
	o, err := newOscillator(frequency)
	if err != nil {
		return nil, err
	}
	return &Sine{oscillator: o}, nil
}

// Generate returns a one-channel frame that is valid until the next call.
func (s *Sine) Generate(t timing.SampleTiming) frame.Frame {
	return s.emit(math.Sin(2 * math.Pi * s.cycles(t)))
}
