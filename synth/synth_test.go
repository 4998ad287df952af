package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/generator"
	"github.com/cbegin/daw-go/timing"
)

func newTriangleSynth(t *testing.T) *Synthesizer {
	t.Helper()
	tri, err := generator.NewTriangle(40)
	require.NoError(t, err)
	env, err := generator.NewADSR(generator.ADSRConfig{Attack: 0.01, SustainLevel: 0.9})
	require.NoError(t, err)
	return New(tri, env)
}

func TestSynthStartsMuted(t *testing.T) {
	s := newTriangleSynth(t)
	assert.Equal(t, Muted, s.State())
	assert.True(t, s.Next(timing.SampleTiming{SampleRate: 48000}).IsNone())
}

func TestSynthTriggersOnNextTick(t *testing.T) {
	s := newTriangleSynth(t)
	st := timing.SampleTiming{SampleRate: 48000, Clock: 1234}
	s.Play(0.5)
	assert.Equal(t, Muted, s.State(), "trigger is deferred to the next tick")
	s.Next(st)
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, uint64(1234), s.Envelope().StartTick)
	assert.Equal(t, 0.5, s.Envelope().Sustain)
}

func TestSynthPlaysTriangleThroughEnvelope(t *testing.T) {
	s := newTriangleSynth(t)
	s.Volume = 0.5
	s.Play(0.01)
	st := timing.SampleTiming{SampleRate: 48000}

	var peak float64
	peakAt := uint64(0)
	for st.Clock < 48000 {
		out := s.Next(st)
		require.Equal(t, 1, out.Channels(), "clock %d", st.Clock)
		v := math.Abs(out[0])
		if st.Clock >= 960 {
			require.Zero(t, v, "clock %d", st.Clock)
		}
		if v > peak {
			peak, peakAt = v, st.Clock
		}
		st.Tick()
	}
	assert.InDelta(t, 0.9*0.5, peak, 1e-9)
	assert.Equal(t, uint64(600), peakAt)
	assert.GreaterOrEqual(t, peakAt, uint64(480))
	assert.Less(t, peakAt, uint64(960))
	assert.Equal(t, Playing, s.State(), "stays playing after the envelope ends")
}

func TestSynthMuteDropsPendingTrigger(t *testing.T) {
	s := newTriangleSynth(t)
	s.Play(1)
	s.Mute()
	assert.True(t, s.Next(timing.SampleTiming{SampleRate: 48000}).IsNone())
	assert.Equal(t, Muted, s.State())
}

func TestSynthRetriggerRestartsEnvelope(t *testing.T) {
	s := newTriangleSynth(t)
	st := timing.SampleTiming{SampleRate: 48000}
	s.Play(0)
	s.Next(st)
	st.Clock = 5000
	s.Play(0)
	s.Next(st)
	assert.Equal(t, uint64(5000), s.Envelope().StartTick)
}

func TestSynthAppliesEnvelopeToEveryChannel(t *testing.T) {
	stereo := generator.Func(func(timing.SampleTiming) frame.Frame { return frame.Frame{1, -1} })
	env, err := generator.NewADSR(generator.ADSRConfig{SustainLevel: 0.25, Sustain: 1})
	require.NoError(t, err)
	s := New(stereo, env)
	s.Play(1)
	out := s.Next(timing.SampleTiming{SampleRate: 100})
	assert.Equal(t, frame.Frame{0.25, -0.25}, out)
}

func TestSynthLeavesGeneratorFrameUntouched(t *testing.T) {
	held := frame.Mono(1)
	src := generator.Func(func(timing.SampleTiming) frame.Frame { return held })
	env, err := generator.NewADSR(generator.ADSRConfig{SustainLevel: 1, Sustain: 10})
	require.NoError(t, err)
	s := New(src, env)
	s.Volume = 0.5
	s.Play(10)

	st := timing.SampleTiming{SampleRate: 1000}
	for i := 0; i < 4; i++ {
		assert.Equal(t, frame.Mono(0.5), s.Next(st), "tick %d", i)
		st.Tick()
	}
	assert.Equal(t, frame.Mono(1), held)
}
