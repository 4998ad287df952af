package effect

import (
	"fmt"
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// DelayMode selects where the feedback gain is applied.
type DelayMode int

const (
	// AttenuateOnRead keeps dry input in the history and mixes
	// feedback × oldest into the live signal: out = in + fb·old.
	AttenuateOnRead DelayMode = iota
	// Recirculate stores in + fb·old in the history and outputs only the
	// delayed signal. With zero feedback it is a plain N-sample delay line.
	Recirculate
)

// DelayConfig describes a Delay. Seconds is converted to a sample count with
// the stream's sample rate on every tick.
type DelayConfig struct {
	Seconds  float64
	Feedback float64
	Mode     DelayMode
}

func (c DelayConfig) Validate() error {
	if c.Seconds < 0 || math.IsNaN(c.Seconds) || math.IsInf(c.Seconds, 0) {
		return fmt.Errorf("delay seconds %v: %w", c.Seconds, ErrInvalidConfig)
	}
	if math.IsNaN(c.Feedback) || math.IsInf(c.Feedback, 0) {
		return fmt.Errorf("delay feedback %v: %w", c.Feedback, ErrInvalidConfig)
	}
	if c.Mode != AttenuateOnRead && c.Mode != Recirculate {
		return fmt.Errorf("delay mode %d: %w", c.Mode, ErrInvalidConfig)
	}
	return nil
}

// Delay echoes its input after a fixed time. Until the history holds N
// frames the input passes through unchanged. In the default AttenuateOnRead
// mode a zero feedback leaves the output equal to the input; only Recirculate
// with zero feedback is a pure N-sample delay.
type Delay struct {
	cfg     DelayConfig
	history ring
	oldest  frame.Frame
	wet     frame.Frame
}

func NewDelay(cfg DelayConfig) (*Delay, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Delay{cfg: cfg}, nil
}

// SetSeconds changes the delay time. A shorter time drains the history one
// extra frame per tick; a longer one waits for the history to fill.
func (d *Delay) SetSeconds(seconds float64) error {
	cfg := d.cfg
	cfg.Seconds = seconds
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.cfg = cfg
	return nil
}

func (d *Delay) SetFeedback(feedback float64) error {
	cfg := d.cfg
	cfg.Feedback = feedback
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.cfg = cfg
	return nil
}

// Len returns the number of frames currently held.
func (d *Delay) Len() int { return d.history.Len() }

func (d *Delay) Process(t timing.SampleTiming, in frame.Frame) frame.Frame {
	if in.IsNone() {
		return in
	}
	n := t.DurationToSampleCount(d.cfg.Seconds)
	if n == 0 {
		if d.cfg.Mode == Recirculate {
			return in
		}
		return in.Scale(1 + d.cfg.Feedback)
	}
	d.history.reserve(n + 1)
	if d.history.Len() > n {
		d.history.pop()
	}
	if d.history.Len() < n {
		d.history.push(in)
		return in
	}

	d.oldest = append(d.oldest[:0], d.history.at(0)...)
	d.history.pop()
	if d.cfg.Mode == Recirculate {
		d.wet = frame.AddScaled(append(d.wet[:0], in...), d.oldest, d.cfg.Feedback)
		d.history.push(d.wet)
		return d.oldest
	}
	d.history.push(in)
	return frame.AddScaled(in, d.oldest, d.cfg.Feedback)
}

// Reset clears the history.
func (d *Delay) Reset() {
	d.history.reset()
}
