// Package frame holds the multi-channel amplitude vector produced once per
// tick, and the arithmetic used to combine frames.
//
// A frame with zero channels is not silence: it means "no output" and ends the
// performance of whatever patch tree it reaches the top of.
package frame

import "fmt"

// Frame is one instant's amplitude per channel.
type Frame []float64

// Interval is a closed numeric range used by LinearMap.
type Interval struct {
	Lo, Hi float64
}

// None returns the zero-channel "no output" frame.
func None() Frame { return nil }

// Mono returns a single-channel frame.
func Mono(v float64) Frame { return Frame{v} }

// Silence returns n channels of zero amplitude.
func Silence(n int) Frame { return make(Frame, n) }

// IsNone reports whether f is the "no output" marker.
func (f Frame) IsNone() bool { return len(f) == 0 }

// Channels returns the channel count.
func (f Frame) Channels() int { return len(f) }

// Clone returns a copy that does not share storage with f.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Equal reports whether both frames have the same channels and values.
func (f Frame) Equal(o Frame) bool {
	if len(f) != len(o) {
		return false
	}
	for i := range f {
		if f[i] != o[i] {
			return false
		}
	}
	return true
}

// Add returns a new frame holding a+b. The shorter operand is zero-padded.
func Add(a, b Frame) Frame {
	n := max(len(a), len(b))
	out := make(Frame, n)
	copy(out, a)
	for i, v := range b {
		out[i] += v
	}
	return out
}

// Accumulate adds src into dst and returns the result, growing dst with zeros
// when src has more channels. Like append, the result may share dst's storage.
func Accumulate(dst, src Frame) Frame {
	return AddScaled(dst, src, 1)
}

// AddScaled adds k*src into dst, with the same growth rules as Accumulate.
func AddScaled(dst, src Frame, k float64) Frame {
	for len(dst) < len(src) {
		dst = append(dst, 0)
	}
	for i, v := range src {
		dst[i] += v * k
	}
	return dst
}

// Scale multiplies every channel by k in place and returns f.
func (f Frame) Scale(k float64) Frame {
	for i := range f {
		f[i] *= k
	}
	return f
}

// Apply multiplies f in place by other, repeating other's channels as often
// as needed, so a mono envelope modulates every channel of a wider frame. An
// empty other leaves f unchanged.
func (f Frame) Apply(other Frame) Frame {
	if len(other) == 0 {
		return f
	}
	for i := range f {
		f[i] *= other[i%len(other)]
	}
	return f
}

// Polify returns n copies of f's channels concatenated: [a b] -> [a b a b].
// This duplicates channels, it does not up-mix.
func (f Frame) Polify(n int) Frame {
	if n < 1 {
		panic(fmt.Sprintf("frame: polify count %d", n))
	}
	width := len(f)
	for i := 1; i < n; i++ {
		f = append(f, f[:width]...)
	}
	return f
}

// LinearMap remaps every sample from one interval onto another in place.
// Samples equal to from.Lo and from.Hi land exactly on to.Lo and to.Hi.
func (f Frame) LinearMap(from, to Interval) Frame {
	span := from.Hi - from.Lo
	if span == 0 {
		panic(fmt.Sprintf("frame: degenerate interval %v", from))
	}
	for i, v := range f {
		t := (v - from.Lo) / span
		f[i] = to.Lo*(1-t) + to.Hi*t
	}
	return f
}
