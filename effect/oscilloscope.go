package effect

import (
	"fmt"
	"math"
	"sync"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Point is one captured frame and the stream time it was produced at.
type Point struct {
	Seconds float64
	Frame   frame.Frame
}

// Oscilloscope passes frames through unchanged while recording a rolling
// window of them for inspection from another goroutine. When a reader holds
// the window the capture for that tick is skipped rather than waited for.
type Oscilloscope struct {
	window   float64
	interval float64
	counter  uint64

	mu sync.Mutex
	// Each slot holds the capture time followed by the frame's channels.
	points  ring
	scratch frame.Frame
}

// NewOscilloscope records a window seconds long, one point every interval
// seconds (at least one point per tick).
func NewOscilloscope(window, interval float64) (*Oscilloscope, error) {
	if !(window > 0) || math.IsInf(window, 0) {
		return nil, fmt.Errorf("oscilloscope window %v: %w", window, ErrInvalidConfig)
	}
	if interval < 0 || math.IsNaN(interval) {
		return nil, fmt.Errorf("oscilloscope interval %v: %w", interval, ErrInvalidConfig)
	}
	return &Oscilloscope{window: window, interval: interval}, nil
}

func (o *Oscilloscope) Process(t timing.SampleTiming, in frame.Frame) frame.Frame {
	if in.IsNone() {
		return in
	}
	every := uint64(max(1, t.DurationToSampleCount(o.interval)))
	capacity := max(1, t.DurationToSampleCount(o.window)/int(every))
	if o.counter%every == 0 && o.mu.TryLock() {
		o.points.reserve(capacity + 1)
		for o.points.Len() >= capacity {
			o.points.pop()
		}
		o.scratch = append(append(o.scratch[:0], t.SampleClock()), in...)
		o.points.push(o.scratch)
		o.mu.Unlock()
	}
	o.counter++
	return in
}

// Snapshot copies the captured window, oldest first.
func (o *Oscilloscope) Snapshot() []Point {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Point, o.points.Len())
	for i := range out {
		slot := o.points.at(i)
		out[i] = Point{Seconds: slot[0], Frame: slot[1:].Clone()}
	}
	return out
}
