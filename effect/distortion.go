package effect

import (
	"math"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

// Distortion implements tanh waveshaping with pre/post gain and an optional
// one-pole low-pass per channel.
type Distortion struct {
	preGain   float64
	postGain  float64
	lpfCutoff float64
	lpfAlpha  float64
	rate      float64
	lpf       []float64
}

// NewDistortion creates a distortion effect.
// preGain: input gain (higher = more distortion)
// postGain: output gain
// lpfCutoff: lowpass filter cutoff in Hz (0 = no filter)
func NewDistortion(preGain, postGain, lpfCutoff float64) *Distortion {
	return &Distortion{
		preGain:   preGain,
		postGain:  postGain,
		lpfCutoff: lpfCutoff,
	}
}

func (d *Distortion) Process(t timing.SampleTiming, in frame.Frame) frame.Frame {
	if t.SampleRate != d.rate {
		d.rate = t.SampleRate
		d.lpfAlpha = 0
		if d.lpfCutoff > 0 && d.lpfCutoff < t.SampleRate/2 {
			rc := 1.0 / (2.0 * math.Pi * d.lpfCutoff)
			dt := 1.0 / t.SampleRate
			d.lpfAlpha = dt / (rc + dt)
		}
	}
	for len(d.lpf) < len(in) {
		d.lpf = append(d.lpf, 0)
	}
	for i, v := range in {
		v = math.Tanh(v*d.preGain) * d.postGain
		if d.lpfAlpha > 0 {
			d.lpf[i] += d.lpfAlpha * (v - d.lpf[i])
			v = d.lpf[i]
		}
		in[i] = v
	}
	return in
}

func (d *Distortion) Reset() {
	for i := range d.lpf {
		d.lpf[i] = 0
	}
}
