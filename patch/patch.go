// Package patch composes generators, synthesizers and effects into the tree
// that a stream pulls one frame from per tick.
package patch

import (
	"github.com/cbegin/daw-go/effect"
	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/generator"
	"github.com/cbegin/daw-go/timing"
)

// Patch produces the frame for one tick. Returning the zero-channel frame
// ends the performance.
type Patch interface {
	Next(t timing.SampleTiming) frame.Frame
}

// Func adapts a closure to Patch.
type Func func(t timing.SampleTiming) frame.Frame

func (f Func) Next(t timing.SampleTiming) frame.Frame { return f(t) }

type pipe struct {
	gen   generator.Generator
	chain *effect.Chain
	buf   frame.Frame
}

// Pipe runs a generator through effects in order. Effects work on a copy of
// the generator's frame, so the generator's own buffer is never modified.
func Pipe(g generator.Generator, effects ...effect.Effect) Patch {
	return &pipe{gen: g, chain: effect.NewChain(effects...)}
}

func (p *pipe) Next(t timing.SampleTiming) frame.Frame {
	in := p.gen.Generate(t)
	if in.IsNone() {
		return in
	}
	p.buf = append(p.buf[:0], in...)
	return p.chain.Process(t, p.buf)
}

// MasterPatch sums its children. It owns them: children must not be shared
// with another parent.
type MasterPatch struct {
	children []Patch
	acc      frame.Frame
}

func NewMaster(children ...Patch) *MasterPatch {
	return &MasterPatch{children: children}
}

func (m *MasterPatch) Add(p Patch) {
	m.children = append(m.children, p)
}

func (m *MasterPatch) Len() int { return len(m.children) }

// Next evaluates every child, even after one has stopped, so that all of
// them advance in step. The sum is zero-padded to the widest child. If any
// child returned the zero-channel frame, or there are no children, the
// result is the zero-channel frame. The returned frame is valid until the
// next call.
func (m *MasterPatch) Next(t timing.SampleTiming) frame.Frame {
	m.acc = m.acc[:0]
	stopped := len(m.children) == 0
	for _, c := range m.children {
		f := c.Next(t)
		if f.IsNone() {
			stopped = true
			continue
		}
		m.acc = frame.Accumulate(m.acc, f)
	}
	if stopped {
		return frame.None()
	}
	return m.acc
}
