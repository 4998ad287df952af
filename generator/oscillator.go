package generator

import (
	"fmt"
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// oscillator carries the frequency shared by the periodic waveforms and the
// one-channel output buffer they reuse between ticks.
type oscillator struct {
	frequency float64
	out       [1]float64
}

func newOscillator(frequency float64) (oscillator, error) {
	o := oscillator{}
	if err := o.SetFrequency(frequency); err != nil {
		return oscillator{}, err
	}
	return o, nil
}

// Frequency returns the frequency in Hz.
func (o *oscillator) Frequency() float64 { return o.frequency }

// SetFrequency changes the frequency, effective from the next tick. Gliding
// between notes is done by calling it once per tick.
func (o *oscillator) SetFrequency(hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 1) {
		return fmt.Errorf("frequency %v: %w", hz, ErrInvalidConfig)
	}
	o.frequency = hz
	return nil
}

// cycles returns how many cycles into the current period t is, in
// [0, 1).
func (o *oscillator) cycles(t timing.SampleTiming) float64 {
	phase, err := t.SampleClockWithFrequency(o.frequency)
	if err != nil {
		panic(err)
	}
	return phase * o.frequency
}

func (o *oscillator) emit(v float64) frame.Frame {
	o.out[0] = v
	return o.out[:]
}
