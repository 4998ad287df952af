package effect

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// LagConfig describes a Lag. BufferLength and BufferLengthRandBias are in
// seconds.
type LagConfig struct {
	StartChance          float64
	StopChance           float64
	BufferLength         float64
	BufferLengthRandBias float64
	// Source drives the per-tick decisions. A fixed source makes the
	// effect replay identically; nil seeds one at random.
	Source rand.Source
}

func (c LagConfig) Validate() error {
	if !(c.StartChance >= 0 && c.StartChance <= 1) {
		return fmt.Errorf("lag start chance %v: %w", c.StartChance, ErrInvalidConfig)
	}
	if !(c.StopChance >= 0 && c.StopChance <= 1) {
		return fmt.Errorf("lag stop chance %v: %w", c.StopChance, ErrInvalidConfig)
	}
	if !(c.BufferLength > 0) || math.IsInf(c.BufferLength, 0) {
		return fmt.Errorf("lag buffer length %v: %w", c.BufferLength, ErrInvalidConfig)
	}
	if !(c.BufferLengthRandBias >= 0 && c.BufferLengthRandBias <= c.BufferLength) {
		return fmt.Errorf("lag buffer bias %v: %w", c.BufferLengthRandBias, ErrInvalidConfig)
	}
	return nil
}

// Lag randomly freezes the stream into a short loop of what it just played,
// like a skipping record or a stalling network stream.
type Lag struct {
	cfg     LagConfig
	rng     *rand.Rand
	window  ring
	loop    []frame.Frame
	loopLen int
	pos     int
	looping bool
	out     frame.Frame
}

func NewLag(cfg LagConfig) (*Lag, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := cfg.Source
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Lag{cfg: cfg, rng: rand.New(src)}, nil
}

// Looping reports whether a captured slice is currently replacing the input.
func (l *Lag) Looping() bool { return l.looping }

func (l *Lag) Process(t timing.SampleTiming, in frame.Frame) frame.Frame {
	if in.IsNone() {
		return in
	}
	windowSize := t.DurationToSampleCount(l.cfg.BufferLength + l.cfg.BufferLengthRandBias)
	l.window.reserve(windowSize + 1)

	out := in
	if l.looping {
		l.out = append(l.out[:0], l.loop[l.pos]...)
		out = l.out
		if l.rng.Float64() < l.cfg.StopChance {
			l.looping = false
		} else {
			l.pos = (l.pos + 1) % l.loopLen
		}
	} else if l.rng.Float64() < l.cfg.StartChance {
		length := l.cfg.BufferLength + (l.rng.Float64()*2-1)*l.cfg.BufferLengthRandBias
		size := t.DurationToSampleCount(length)
		if size > 0 && l.window.Len() >= size {
			l.capture(size)
		}
	}

	if l.window.Len() > 0 && l.window.Len() >= windowSize {
		l.window.pop()
	}
	l.window.push(out)
	return out
}

// capture copies the newest size frames of the window into the loop.
func (l *Lag) capture(size int) {
	if len(l.loop) < size {
		l.loop = append(l.loop, make([]frame.Frame, size-len(l.loop))...)
	}
	start := l.window.Len() - size
	for i := 0; i < size; i++ {
		l.loop[i] = append(l.loop[i][:0], l.window.at(start+i)...)
	}
	l.loopLen = size
	l.pos = 0
	l.looping = true
}
