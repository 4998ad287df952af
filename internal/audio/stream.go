// Package audio bridges a patch tree to a realtime output device.
//
// The device pulls samples through Stream.Read on its own goroutine. The
// patch and its clock travel together in a single session value that is held
// either by the callback or by the controller, never both. The callback only
// ever takes it with a non-blocking receive; the controller blocks, bounded
// by a context, when it needs the patch back or wants to swap it.
package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cbegin/daw-go/patch"
	"github.com/cbegin/daw-go/timing"
)

var (
	// ErrClosed is returned when the stream has already stopped producing.
	ErrClosed = errors.New("stream closed")
	// ErrInvalidStream is returned for impossible stream parameters.
	ErrInvalidStream = errors.New("invalid stream parameters")
)

const bytesPerSample = 4

type session struct {
	patch  patch.Patch
	timing timing.SampleTiming
}

// Stream renders a patch into interleaved float32 little-endian samples. A
// frame's channels are cycled over the device channels, so a mono frame
// reaches every speaker.
type Stream struct {
	channels int
	rate     float64

	slot       chan *session
	exit       atomic.Bool
	ended      atomic.Bool
	finished   chan struct{}
	finishOnce sync.Once
	// Closed once the controller has taken the session back for good.
	reclaimed   chan struct{}
	reclaimOnce sync.Once

	gain  atomic.Uint64
	clock atomic.Uint64

	// Owned by whichever goroutine is inside Read or Render.
	scratch []float32
}

// NewStream hands p to a new stream starting at clock 0.
func NewStream(p patch.Patch, sampleRate float64, channels int) (*Stream, error) {
	t, err := timing.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	return newStream(p, t, channels)
}

// NewStreamAt hands p to a new stream that continues from t.
func NewStreamAt(p patch.Patch, t timing.SampleTiming, channels int) (*Stream, error) {
	if _, err := timing.New(t.SampleRate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	return newStream(p, t, channels)
}

func newStream(p patch.Patch, t timing.SampleTiming, channels int) (*Stream, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil patch", ErrInvalidStream)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidStream, channels)
	}
	s := &Stream{
		channels:  channels,
		rate:      t.SampleRate,
		slot:      make(chan *session, 1),
		finished:  make(chan struct{}),
		reclaimed: make(chan struct{}),
	}
	s.slot <- &session{patch: p, timing: t}
	s.clock.Store(t.Clock)
	s.SetGain(1)
	return s, nil
}

func (s *Stream) Channels() int { return s.channels }

func (s *Stream) SampleRate() float64 { return s.rate }

// FrameBytes is the size of one interleaved frame on the wire.
func (s *Stream) FrameBytes() int { return s.channels * bytesPerSample }

// SetGain sets the master gain applied while converting frames to samples.
// It is safe to call from any goroutine.
func (s *Stream) SetGain(g float64) {
	s.gain.Store(math.Float64bits(g))
}

func (s *Stream) Gain() float64 {
	return math.Float64frombits(s.gain.Load())
}

// Clock returns the clock after the most recently rendered frame.
func (s *Stream) Clock() uint64 { return s.clock.Load() }

// Finished is closed when the patch produced its zero-channel frame.
func (s *Stream) Finished() <-chan struct{} { return s.finished }

// Ended reports whether the patch stopped itself.
func (s *Stream) Ended() bool { return s.ended.Load() }

// Exited reports whether the stream has stopped producing, either because the
// patch ended or because the controller reclaimed it.
func (s *Stream) Exited() bool { return s.exit.Load() }

// Read implements io.Reader for the device. Only whole frames are written.
func (s *Stream) Read(p []byte) (int, error) {
	if s.exit.Load() {
		return 0, io.EOF
	}
	frames := len(p) / s.FrameBytes()
	if frames == 0 {
		return 0, nil
	}
	need := frames * s.channels
	if cap(s.scratch) < need {
		s.scratch = make([]float32, need)
	}
	buf := s.scratch[:need]
	_, ended := s.Render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	n := frames * s.FrameBytes()
	if ended {
		return n, io.EOF
	}
	return n, nil
}

// Render fills dst, whose length must be a multiple of the channel count,
// and returns the number of frames the patch produced. When the slot is
// momentarily empty because the controller is swapping patches, dst is
// filled with silence and no frames are counted. ended is true once the
// patch has stopped itself; the rest of dst is then zero.
func (s *Stream) Render(dst []float32) (frames int, ended bool) {
	if s.exit.Load() {
		clear(dst)
		return 0, true
	}
	var sess *session
	select {
	case sess = <-s.slot:
	default:
		clear(dst)
		return 0, false
	}
	// Put back before returning; this cannot block since we held the only value.
	defer func() { s.slot <- sess }()

	gain := s.Gain()
	total := len(dst) / s.channels
	for frames < total {
		f := sess.patch.Next(sess.timing)
		if f.IsNone() {
			clear(dst[frames*s.channels:])
			s.finish()
			ended = true
			break
		}
		base := frames * s.channels
		for c := 0; c < s.channels; c++ {
			dst[base+c] = float32(f[c%len(f)] * gain)
		}
		sess.timing.Tick()
		frames++
	}
	s.clock.Store(sess.timing.Clock)
	return frames, ended
}

func (s *Stream) finish() {
	s.finishOnce.Do(func() {
		s.ended.Store(true)
		s.exit.Store(true)
		close(s.finished)
	})
}

// Reclaim stops the stream and returns its patch and clock. The next callback
// invocation observes the exit and reports io.EOF. If ctx ends first the
// patch stays with the stream and Reclaim may be called again.
func (s *Stream) Reclaim(ctx context.Context) (patch.Patch, timing.SampleTiming, error) {
	s.exit.Store(true)
	select {
	case sess := <-s.slot:
		s.markReclaimed()
		return sess.patch, sess.timing, nil
	case <-ctx.Done():
		return nil, timing.SampleTiming{}, ctx.Err()
	}
}

func (s *Stream) markReclaimed() {
	s.reclaimOnce.Do(func() { close(s.reclaimed) })
}

// Swap replaces the playing patch between two callback invocations and
// returns the previous one. The clock carries on from where it was. If the
// stream is reclaimed while Swap waits, it returns ErrClosed.
func (s *Stream) Swap(ctx context.Context, p patch.Patch) (patch.Patch, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil patch", ErrInvalidStream)
	}
	if s.exit.Load() {
		return nil, ErrClosed
	}
	select {
	case sess := <-s.slot:
		old := sess.patch
		sess.patch = p
		s.slot <- sess
		return old, nil
	case <-s.reclaimed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
