// Package effect contains stateful, history-backed transforms from one frame
// to the next.
//
// Process may modify its input frame and return it. A zero-channel input is
// returned untouched by every effect here, so the end-of-performance marker
// survives any chain it passes through.
package effect

import (
	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Effect transforms the frame of one tick.
type Effect interface {
	Process(t timing.SampleTiming, in frame.Frame) frame.Frame
}

// Func adapts a closure to Effect.
type Func func(t timing.SampleTiming, in frame.Frame) frame.Frame

func (f Func) Process(t timing.SampleTiming, in frame.Frame) frame.Frame { return f(t, in) }

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effect
}

func NewChain(effects ...Effect) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(t timing.SampleTiming, in frame.Frame) frame.Frame {
	for _, e := range c.effects {
		if in.IsNone() {
			return in
		}
		in = e.Process(t, in)
	}
	return in
}

func (c *Chain) Add(e Effect) {
	c.effects = append(c.effects, e)
}

// Len returns the number of effects in the chain.
func (c *Chain) Len() int { return len(c.effects) }
