// Package generator contains timing-driven producers of waveforms and control
// signals.
package generator

import (
	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Generator produces one frame per tick. Implementations may keep state
// between calls.
//
// The returned frame belongs to the generator and may be reused on the next
// call. Callers must not modify it; copy it first.
type Generator interface {
	Generate(t timing.SampleTiming) frame.Frame
}

// Func adapts a closure to Generator. The closure may capture whatever state
// it needs.
type Func func(t timing.SampleTiming) frame.Frame

func (f Func) Generate(t timing.SampleTiming) frame.Frame { return f(t) }
