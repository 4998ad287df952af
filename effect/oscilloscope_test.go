package effect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/timing"
)

func TestOscilloscopeKeepsRollingWindow(t *testing.T) {
	o, err := NewOscilloscope(0.01, 0)
	require.NoError(t, err)
	st := timing.SampleTiming{SampleRate: 1000}
	for i := 0; i < 25; i++ {
		in := frame.Frame{float64(i), -float64(i)}
		out := o.Process(st, in)
		assert.Equal(t, in, out)
		st.Tick()
	}
	points := o.Snapshot()
	require.Len(t, points, 10)
	for j, p := range points {
		i := 15 + j
		assert.InDelta(t, float64(i)/1000, p.Seconds, 1e-12)
		assert.Equal(t, frame.Frame{float64(i), -float64(i)}, p.Frame)
	}
}

func TestOscilloscopeSamplesEveryInterval(t *testing.T) {
	o, err := NewOscilloscope(0.01, 0.002)
	require.NoError(t, err)
	st := timing.SampleTiming{SampleRate: 1000}
	for i := 0; i < 30; i++ {
		o.Process(st, frame.Mono(float64(i)))
		st.Tick()
	}
	points := o.Snapshot()
	require.Len(t, points, 5)
	assert.Equal(t, frame.Mono(20), points[0].Frame)
	assert.Equal(t, frame.Mono(28), points[4].Frame)
}

func TestOscilloscopeSnapshotIsACopy(t *testing.T) {
	o, err := NewOscilloscope(1, 0)
	require.NoError(t, err)
	st := timing.SampleTiming{SampleRate: 10}
	o.Process(st, frame.Mono(1))
	snap := o.Snapshot()
	snap[0].Frame[0] = 42
	assert.Equal(t, frame.Mono(1), o.Snapshot()[0].Frame)
}

func TestOscilloscopeConcurrentReaders(t *testing.T) {
	o, err := NewOscilloscope(0.05, 0)
	require.NoError(t, err)
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				for _, p := range o.Snapshot() {
					assert.Len(t, p.Frame, 1)
				}
			}
		}
	}()
	st := timing.SampleTiming{SampleRate: 1000}
	for i := 0; i < 5000; i++ {
		o.Process(st, frame.Mono(float64(i)))
		st.Tick()
	}
	close(done)
	wg.Wait()
	assert.NotEmpty(t, o.Snapshot())
}

func TestOscilloscopeValidation(t *testing.T) {
	_, err := NewOscilloscope(0, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewOscilloscope(1, -1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
