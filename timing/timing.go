// Package timing implements the discrete sample clock that drives every
// generator, effect and patch.
package timing

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonPositive is returned when a sample rate, frequency or length is not a
// finite positive number.
var ErrNonPositive = errors.New("value must be positive")

// SampleTiming is the clock of one stream. Clock counts produced frames; it is
// passed by value while a tick is being evaluated, so it is read-only there.
type SampleTiming struct {
	SampleRate float64
	Clock      uint64
}

// New returns a timing at clock 0.
func New(sampleRate float64) (SampleTiming, error) {
	if !positive(sampleRate) {
		return SampleTiming{}, fmt.Errorf("sample rate %v: %w", sampleRate, ErrNonPositive)
	}
	return SampleTiming{SampleRate: sampleRate}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}

// Tick advances the clock by one frame.
func (t *SampleTiming) Tick() {
	t.Clock++
}

// DurationToSampleCount converts seconds to a whole number of samples,
// rounding down.
func (t SampleTiming) DurationToSampleCount(seconds float64) int {
	n := math.Floor(seconds * t.SampleRate)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// SampleClock returns the clock in seconds. It loses precision on long runs,
// so periodic signals should use SampleClockWithFrequency instead; this one is
// for signals whose length is not known up front.
func (t SampleTiming) SampleClock() float64 {
	return float64(t.Clock) / t.SampleRate
}

// Elapsed returns the seconds since startTick.
func (t SampleTiming) Elapsed(startTick uint64) float64 {
	if startTick > t.Clock {
		panic(fmt.Sprintf("timing: start tick %d is after clock %d", startTick, t.Clock))
	}
	return float64(t.Clock-startTick) / t.SampleRate
}

// PeriodSamples returns the whole number of samples after which a signal of
// the given frequency is treated as repeating: ceil(f) cycles, which is a
// whole number of seconds worth of samples for integer frequencies.
func (t SampleTiming) PeriodSamples(frequency float64) (uint64, error) {
	if !positive(frequency) {
		return 0, fmt.Errorf("frequency %v: %w", frequency, ErrNonPositive)
	}
	return periodOf(math.Ceil(frequency) * t.SampleRate / frequency), nil
}

func periodOf(samples float64) uint64 {
	p := math.Floor(samples)
	if p < 1 || math.IsNaN(p) {
		return 1
	}
	if p >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(p)
}

// SampleClockWithFrequency returns the phase time in [0, 1/frequency). The
// clock is reduced modulo an integer period before converting to seconds, so
// the result does not drift however long the stream runs.
func (t SampleTiming) SampleClockWithFrequency(frequency float64) (float64, error) {
	period, err := t.PeriodSamples(frequency)
	if err != nil {
		return 0, err
	}
	phase := float64(t.Clock%period) / t.SampleRate
	return math.Mod(phase, 1/frequency), nil
}

// SampleClockWithLength is SampleClockWithFrequency for a fixed duration:
// the result is in [0, length).
func (t SampleTiming) SampleClockWithLength(length float64) (float64, error) {
	if !positive(length) {
		return 0, fmt.Errorf("length %v: %w", length, ErrNonPositive)
	}
	period := periodOf(length * t.SampleRate * math.Ceil(1/length))
	phase := float64(t.Clock%period) / t.SampleRate
	return math.Mod(phase, length), nil
}

// IsTime reports whether the clock sits exactly on the given second mark.
func (t SampleTiming) IsTime(seconds float64) bool {
	return t.Clock == uint64(t.DurationToSampleCount(seconds))
}

// Offset returns a copy shifted by n ticks. Shifting below zero panics.
func (t SampleTiming) Offset(n int64) SampleTiming {
	if n < 0 {
		d := uint64(-n)
		if d > t.Clock {
			panic(fmt.Sprintf("timing: clock underflow: %d - %d", t.Clock, d))
		}
		return SampleTiming{SampleRate: t.SampleRate, Clock: t.Clock - d}
	}
	return SampleTiming{SampleRate: t.SampleRate, Clock: t.Clock + uint64(n)}
}

// Add returns t shifted forward by o's clock, keeping t's sample rate.
func (t SampleTiming) Add(o SampleTiming) SampleTiming {
	return SampleTiming{SampleRate: t.SampleRate, Clock: t.Clock + o.Clock}
}

// Sub returns t shifted back by o's clock. Underflow panics.
func (t SampleTiming) Sub(o SampleTiming) SampleTiming {
	if o.Clock > t.Clock {
		panic(fmt.Sprintf("timing: clock underflow: %d - %d", t.Clock, o.Clock))
	}
	return SampleTiming{SampleRate: t.SampleRate, Clock: t.Clock - o.Clock}
}
