package effect

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

func TestLagLoopsTheNewestWindow(t *testing.T) {
	l, err := NewLag(LagConfig{
		StartChance:  1,
		StopChance:   0,
		BufferLength: 0.01,
		Source:       rand.NewPCG(1, 2),
	})
	require.NoError(t, err)
	st := timing.SampleTiming{SampleRate: 1000}

	for i := 0; i < 50; i++ {
		out := l.Process(st, frame.Mono(float64(i)))
		switch {
		case i <= 10:
			assert.Equal(t, frame.Mono(float64(i)), out, "tick %d", i)
		default:
			assert.Equal(t, frame.Mono(float64((i-11)%10)), out, "tick %d", i)
		}
		st.Tick()
	}
	assert.True(t, l.Looping())
}

func TestLagNeverStartingIsPassThrough(t *testing.T) {
	l, err := NewLag(LagConfig{StartChance: 0, StopChance: 1, BufferLength: 0.005})
	require.NoError(t, err)
	st := timing.SampleTiming{SampleRate: 1000}
	for i := 0; i < 100; i++ {
		in := frame.Frame{float64(i), 1}
		assert.Equal(t, frame.Frame{float64(i), 1}, l.Process(st, in))
	}
	assert.False(t, l.Looping())
}

func TestLagStopsLooping(t *testing.T) {
	l, err := NewLag(LagConfig{StartChance: 1, StopChance: 1, BufferLength: 0.004, Source: rand.NewPCG(3, 4)})
	require.NoError(t, err)
	st := timing.SampleTiming{SampleRate: 1000}
	for i := 0; i < 5; i++ {
		l.Process(st, frame.Mono(float64(i)))
	}
	require.True(t, l.Looping())
	out := l.Process(st, frame.Mono(5))
	assert.Equal(t, frame.Mono(0), out)
	assert.False(t, l.Looping())
}

func TestLagSameSourceReplaysIdentically(t *testing.T) {
	cfg := LagConfig{StartChance: 0.05, StopChance: 0.02, BufferLength: 0.02, BufferLengthRandBias: 0.01}
	run := func() []float64 {
		c := cfg
		c.Source = rand.NewPCG(42, 7)
		l, err := NewLag(c)
		require.NoError(t, err)
		st := timing.SampleTiming{SampleRate: 1000}
		var got []float64
		for i := 0; i < 2000; i++ {
			got = append(got, l.Process(st, frame.Mono(float64(i)))[0])
			st.Tick()
		}
		return got
	}
	assert.Equal(t, run(), run())
}

func TestLagPassesNoOutput(t *testing.T) {
	l, err := NewLag(LagConfig{StartChance: 1, BufferLength: 0.01})
	require.NoError(t, err)
	assert.True(t, l.Process(timing.SampleTiming{SampleRate: 1000}, frame.None()).IsNone())
}

func TestLagValidation(t *testing.T) {
	bad := []LagConfig{
		{StartChance: -0.1, BufferLength: 1},
		{StartChance: 1.1, BufferLength: 1},
		{StopChance: 2, BufferLength: 1},
		{BufferLength: 0},
		{BufferLength: 1, BufferLengthRandBias: 2},
		{BufferLength: 1, BufferLengthRandBias: -1},
		{StartChance: nan(), BufferLength: 1},
	}
	for _, cfg := range bad {
		_, err := NewLag(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}
}
