package generator

import (
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Triangle is a mono triangle wave in [-1, 1], starting at +1.
type Triangle struct {
	oscillator
}

func NewTriangle(frequency float64) (*Triangle, error) {
	o, err := newOscillator(frequency)
	if err != nil {
		return nil, err
	}
	return &Triangle{oscillator: o}, nil
}

// Generate returns a one-channel frame that is valid until the next call.
func (tr *Triangle) Generate(t timing.SampleTiming) frame.Frame {
	x := math.Mod(tr.cycles(t)*4, 4)
	return tr.emit(math.Abs(x-2) - 1)
}
