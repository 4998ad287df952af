// Package synth plays a generator through an ADSR envelope on demand.
package synth

import (
	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/generator"
	"github.com/cbegin/daw-go/timing"
)

// State is the trigger state of a Synthesizer.
type State int

const (
	Muted State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "muted"
}

// Synthesizer shapes one generator with one envelope. It starts Muted.
//
// Play only arms a trigger; the envelope is anchored to the clock of the next
// tick, so a note started between two ticks lines up with the first sample
// it affects.
type Synthesizer struct {
	gen     generator.Generator
	env     *generator.ADSR
	state   State
	pending bool
	out     frame.Frame

	// Volume scales the generator before the envelope is applied. It may be
	// changed between ticks.
	Volume float64
}

func New(gen generator.Generator, env *generator.ADSR) *Synthesizer {
	return &Synthesizer{gen: gen, env: env, Volume: 1}
}

// Play arms a note whose sustain segment lasts sustain seconds.
func (s *Synthesizer) Play(sustain float64) {
	if sustain < 0 {
		sustain = 0
	}
	s.env.Sustain = sustain
	s.pending = true
}

// Mute silences the synthesizer and drops an armed trigger.
func (s *Synthesizer) Mute() {
	s.state = Muted
	s.pending = false
}

func (s *Synthesizer) State() State { return s.state }

// Envelope exposes the envelope so its shape can be tuned between notes.
func (s *Synthesizer) Envelope() *generator.ADSR { return s.env }

// Generator returns the wrapped source, e.g. to glide its frequency.
func (s *Synthesizer) Generator() generator.Generator { return s.gen }

// Next returns the frame for t, or the zero-channel frame while muted. The
// synthesizer stays Playing after the envelope has decayed to zero. The
// generator's frame is copied before scaling, and the result is valid until
// the next call.
func (s *Synthesizer) Next(t timing.SampleTiming) frame.Frame {
	if s.pending {
		s.env.Retrigger(t.Clock)
		s.state = Playing
		s.pending = false
	}
	if s.state == Muted {
		return frame.None()
	}
	s.out = append(s.out[:0], s.gen.Generate(t)...)
	return s.out.Scale(s.Volume).Apply(s.env.Generate(t))
}

// Generate makes a Synthesizer usable wherever a generator is expected.
func (s *Synthesizer) Generate(t timing.SampleTiming) frame.Frame { return s.Next(t) }
