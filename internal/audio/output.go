package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	ErrUnknownBackend      = errors.New("unknown audio backend")
	ErrUnsupportedChannels = errors.New("unsupported channel count")
)

// Output is a device player pulling from a Stream.
type Output interface {
	Play()
	Pause()
	Close() error
}

// OutputConfig describes the device side of a stream. A zero Buffer leaves
// the backend's default latency.
type OutputConfig struct {
	SampleRate int
	Channels   int
	Buffer     time.Duration
}

// OutputFactory opens an output that reads interleaved float32 samples from r.
type OutputFactory func(cfg OutputConfig, r io.Reader) (Output, error)

const (
	BackendEbiten = "ebiten"
	BackendOto    = "oto"
)

// Backend returns the factory registered under name.
func Backend(name string) (OutputFactory, error) {
	switch name {
	case "", BackendEbiten:
		return EbitenOutput, nil
	case BackendOto:
		return OtoOutput, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

var (
	ebitenOnce sync.Once
	ebitenCtx  *ebitaudio.Context
	ebitenRate int
)

// Both device libraries allow a single context per process, created at a
// fixed rate.
func sharedEbitenContext(sampleRate int) (*ebitaudio.Context, error) {
	ebitenOnce.Do(func() {
		ebitenRate = sampleRate
		ebitenCtx = ebitaudio.NewContext(sampleRate)
	})
	if ebitenRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", ebitenRate, sampleRate)
	}
	return ebitenCtx, nil
}

// EbitenOutput plays through ebiten's audio context. It is stereo only.
func EbitenOutput(cfg OutputConfig, r io.Reader) (Output, error) {
	if cfg.Channels != 2 {
		return nil, fmt.Errorf("%w: ebiten plays 2 channels, got %d", ErrUnsupportedChannels, cfg.Channels)
	}
	ctx, err := sharedEbitenContext(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	pl, err := ctx.NewPlayerF32(r)
	if err != nil {
		return nil, err
	}
	if cfg.Buffer > 0 {
		pl.SetBufferSize(cfg.Buffer)
	}
	return pl, nil
}

var (
	otoOnce     sync.Once
	otoCtx      *oto.Context
	otoErr      error
	otoRate     int
	otoChannels int
)

func sharedOtoContext(sampleRate, channels int, buffer time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoRate, otoChannels = sampleRate, channels
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   buffer,
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate || otoChannels != channels {
		return nil, fmt.Errorf("audio context already initialized at %d Hz x%d (requested %d Hz x%d)",
			otoRate, otoChannels, sampleRate, channels)
	}
	return otoCtx, nil
}

// OtoOutput plays through oto with any channel count.
func OtoOutput(cfg OutputConfig, r io.Reader) (Output, error) {
	if cfg.Channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, cfg.Channels)
	}
	ctx, err := sharedOtoContext(cfg.SampleRate, cfg.Channels, cfg.Buffer)
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(r), nil
}
