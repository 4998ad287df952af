package generator

import (
	"fmt"
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// ADSRConfig describes an envelope. Durations are in seconds; SustainLevel is
// the amplitude held between decay and release.
type ADSRConfig struct {
	Attack       float64
	Decay        float64
	SustainLevel float64
	Sustain      float64
	Release      float64
}

// Validate checks that every segment is non-negative and the sustain level is
// within [0, 1].
func (c ADSRConfig) Validate() error {
	segments := [...]struct {
		name string
		v    float64
	}{
		{"attack", c.Attack},
		{"decay", c.Decay},
		{"sustain", c.Sustain},
		{"release", c.Release},
	}
	for _, s := range segments {
		if s.v < 0 || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return fmt.Errorf("%s %v: %w", s.name, s.v, ErrInvalidConfig)
		}
	}
	if c.SustainLevel < 0 || c.SustainLevel > 1 || math.IsNaN(c.SustainLevel) {
		return fmt.Errorf("sustain level %v: %w", c.SustainLevel, ErrInvalidConfig)
	}
	return nil
}

// TotalDuration is the length of the whole envelope in seconds.
func (c ADSRConfig) TotalDuration() float64 {
	return c.Attack + c.Decay + c.Sustain + c.Release
}

// ADSR is an attack-decay-sustain-release envelope measured from StartTick.
type ADSR struct {
	ADSRConfig
	StartTick uint64
	out       [1]float64
}

func NewADSR(cfg ADSRConfig) (*ADSR, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ADSR{ADSRConfig: cfg}, nil
}

// Retrigger restarts the envelope at tick.
func (a *ADSR) Retrigger(tick uint64) {
	a.StartTick = tick
}

// Amplitude evaluates the envelope shape at elapsed seconds after the start.
func (a *ADSR) Amplitude(elapsed float64) float64 {
	if elapsed < 0 {
		return 0
	}
	if elapsed < a.Attack {
		return elapsed / a.Attack
	}
	elapsed -= a.Attack
	if elapsed < a.Decay {
		return 1 - (elapsed/a.Decay)*(1-a.SustainLevel)
	}
	elapsed -= a.Decay
	if elapsed < a.Sustain {
		return a.SustainLevel
	}
	elapsed -= a.Sustain
	if elapsed < a.Release {
		return (1 - elapsed/a.Release) * a.SustainLevel
	}
	return 0
}

// Generate returns a one-channel frame that is valid until the next call.
// Before StartTick the envelope is silent.
func (a *ADSR) Generate(t timing.SampleTiming) frame.Frame {
	if t.Clock < a.StartTick {
		a.out[0] = 0
	} else {
		a.out[0] = a.Amplitude(t.Elapsed(a.StartTick))
	}
	return a.out[:]
}
