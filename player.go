// Package daw plays patch trees on an audio device and renders them offline.
package daw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	intaudio "github.com/cbegin/daw-go/internal/audio"
	"github.com/cbegin/daw-go/patch"
)

// Output, OutputConfig and OutputFactory let callers plug in their own audio
// sink, for example to record what a device would have played.
type (
	Output        = intaudio.Output
	OutputConfig  = intaudio.OutputConfig
	OutputFactory = intaudio.OutputFactory
)

// EventKind identifies a playback event from Watch().
type EventKind int

const (
	EventStarted EventKind = iota
	// EventPlaybackEnded is sent when the patch stopped itself.
	EventPlaybackEnded
	// EventStopped is sent when Stop was called or the Play context ended.
	EventStopped
	EventSwapped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPlaybackEnded:
		return "ended"
	case EventStopped:
		return "stopped"
	case EventSwapped:
		return "swapped"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event carries a lifecycle change and the stream clock it happened at.
type Event struct {
	Kind  EventKind
	Clock uint64
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	sampleRate int
	channels   int
	backend    string
	factory    OutputFactory
	buffer     time.Duration
	logger     *slog.Logger
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{sampleRate: 48000, channels: 2, backend: intaudio.BackendEbiten}
}

func WithSampleRate(rate int) PlayerOption {
	return func(cfg *playerConfig) { cfg.sampleRate = rate }
}

func WithChannels(n int) PlayerOption {
	return func(cfg *playerConfig) { cfg.channels = n }
}

// WithBackend selects a device backend by name: "ebiten" (default, stereo
// only) or "oto".
func WithBackend(name string) PlayerOption {
	return func(cfg *playerConfig) { cfg.backend = name }
}

// WithOutputFactory replaces the device backend entirely.
func WithOutputFactory(f OutputFactory) PlayerOption {
	return func(cfg *playerConfig) { cfg.factory = f }
}

// WithBuffer sets the device buffer duration. Zero keeps the backend default.
func WithBuffer(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.buffer = d }
}

func WithLogger(l *slog.Logger) PlayerOption {
	return func(cfg *playerConfig) { cfg.logger = l }
}

// session is one Play call: the stream, the device reading it, and the
// channels the supervisor uses to hand the patch back.
type session struct {
	stream   *intaudio.Stream
	out      Output
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	returned chan patch.Patch
}

func (s *session) requestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Player plays one patch at a time. While a patch is playing it belongs to
// the audio callback; Stop hands it back.
type Player struct {
	mu      sync.Mutex
	cfg     playerConfig
	log     *slog.Logger
	factory OutputFactory
	volume  float64
	current *session

	eventCh   chan Event
	eventChMu sync.Mutex
}

func NewPlayer(opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, cfg.sampleRate)
	}
	if cfg.channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidConfig, cfg.channels)
	}
	factory := cfg.factory
	if factory == nil {
		f, err := intaudio.Backend(cfg.backend)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		factory = f
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		cfg:     cfg,
		log:     logger.With("component", "player"),
		factory: factory,
		volume:  1,
	}, nil
}

func (p *Player) SampleRate() int { return p.cfg.sampleRate }
func (p *Player) Channels() int   { return p.cfg.channels }

// Play hands pt to a new stream and starts the device. Playback lasts until
// the patch stops itself, Stop is called, or ctx is done; in every case the
// patch is parked for Stop to collect.
func (p *Player) Play(ctx context.Context, pt patch.Patch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil && !p.current.finished() {
		return ErrAlreadyPlaying
	}

	stream, err := intaudio.NewStream(pt, float64(p.cfg.sampleRate), p.cfg.channels)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	stream.SetGain(p.volume)
	out, err := p.factory(OutputConfig{
		SampleRate: p.cfg.sampleRate,
		Channels:   p.cfg.channels,
		Buffer:     p.cfg.buffer,
	}, stream)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	s := &session{
		stream:   stream,
		out:      out,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		returned: make(chan patch.Patch, 1),
	}
	p.current = s
	out.Play()
	go p.supervise(ctx, s)

	p.log.Info("playback started", "sample_rate", p.cfg.sampleRate, "channels", p.cfg.channels)
	p.sendEvent(Event{Kind: EventStarted})
	return nil
}

// supervise waits for the session to end, closes the device and takes the
// patch back from the stream.
func (p *Player) supervise(ctx context.Context, s *session) {
	kind := EventStopped
	select {
	case <-ctx.Done():
		p.log.Debug("play context done", "err", ctx.Err())
	case <-s.stop:
	case <-s.stream.Finished():
		kind = EventPlaybackEnded
	}

	if err := s.out.Close(); err != nil {
		p.log.Warn("closing output", "err", err)
	}
	// The device no longer calls Read once closed, so the callback returns the
	// session promptly.
	pt, t, err := s.stream.Reclaim(context.Background())
	if err != nil {
		p.log.Error("reclaiming patch", "err", err)
	}
	s.returned <- pt
	close(s.done)

	p.log.Info("playback finished", "reason", kind.String(), "clock", t.Clock)
	p.sendEvent(Event{Kind: kind, Clock: t.Clock})
}

// Stop ends playback and returns the patch. If the patch already stopped
// itself, Stop just collects it. If ctx ends first, the patch stays parked
// and Stop may be called again.
func (p *Player) Stop(ctx context.Context) (patch.Patch, error) {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()
	if s == nil {
		return nil, ErrNotPlaying
	}
	s.requestStop()
	select {
	case pt := <-s.returned:
		p.mu.Lock()
		if p.current == s {
			p.current = nil
		}
		p.mu.Unlock()
		return pt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Swap replaces the playing patch without interrupting the stream and
// returns the previous one. The clock carries on.
func (p *Player) Swap(ctx context.Context, pt patch.Patch) (patch.Patch, error) {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()
	if s == nil || s.finished() {
		return nil, ErrNotPlaying
	}
	old, err := s.stream.Swap(ctx, pt)
	if errors.Is(err, intaudio.ErrClosed) {
		return nil, ErrNotPlaying
	}
	if err != nil {
		return nil, err
	}
	p.log.Debug("patch swapped", "clock", s.stream.Clock())
	p.sendEvent(Event{Kind: EventSwapped, Clock: s.stream.Clock()})
	return old, nil
}

// Wait blocks until the current playback has finished and its patch is
// parked, or ctx is done. It returns immediately when nothing is playing.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Player) sendEvent(ev Event) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

// Watch returns a channel that receives playback events. The channel is
// buffered (cap 8) and events are dropped when it is full. Only the most
// recent Watch() channel receives events; call Watch before Play.
func (p *Player) Watch() <-chan Event {
	ch := make(chan Event, 8)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil && !p.current.finished() {
		p.current.out.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil && !p.current.finished() {
		p.current.out.Play()
	}
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default. It applies
// immediately to a playing stream.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.current != nil {
		p.current.stream.SetGain(volume)
	}
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Position returns how much audio the stream has rendered. Device buffering
// means the listener is slightly behind this. Returns 0 if nothing played.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()
	if s == nil {
		return 0
	}
	return time.Duration(float64(s.stream.Clock()) / s.stream.SampleRate() * float64(time.Second))
}
