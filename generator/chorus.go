package generator

import (
	"fmt"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Chorus averages a generator with time-shifted copies of itself. The source
// is evaluated once per voice per tick, so it should be a pure function of
// the timing, like Sine or Triangle.
type Chorus struct {
	source  Generator
	offsets []int64
	out     frame.Frame
}

// NewChorus takes voice offsets in ticks; each must be non-negative.
func NewChorus(source Generator, offsets ...int64) (*Chorus, error) {
	if source == nil {
		return nil, fmt.Errorf("nil source: %w", ErrInvalidConfig)
	}
	for _, off := range offsets {
		if off < 0 {
			return nil, fmt.Errorf("offset %d: %w", off, ErrInvalidConfig)
		}
	}
	return &Chorus{source: source, offsets: offsets}, nil
}

// Generate returns a frame that is valid until the next call.
func (c *Chorus) Generate(t timing.SampleTiming) frame.Frame {
	out := frame.Accumulate(c.out[:0], c.source.Generate(t))
	for _, off := range c.offsets {
		out = frame.Accumulate(out, c.source.Generate(t.Offset(off)))
	}
	c.out = out
	return out.Scale(1 / float64(len(c.offsets)+1))
}
