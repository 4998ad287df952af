package daw

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	intaudio "github.com/cbegin/daw-go/internal/audio"
	"github.com/cbegin/daw-go/patch"
)

const renderBlockFrames = 1024

// Render plays pt without a device for at most seconds, returning
// interleaved float32 samples. Rendering stops early, without padding, when
// the patch stops itself. The same patch state always renders the same
// samples.
func Render(pt patch.Patch, sampleRate, channels int, seconds float64) ([]float32, error) {
	stream, err := intaudio.NewStream(pt, float64(sampleRate), channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	frames := int(float64(sampleRate) * seconds)
	if frames < 0 {
		frames = 0
	}
	out := make([]float32, frames*channels)
	produced := 0
	for produced < frames {
		n := min(renderBlockFrames, frames-produced)
		block := out[produced*channels : (produced+n)*channels]
		got, ended := stream.Render(block)
		produced += got
		if ended {
			break
		}
	}
	return out[:produced*channels], nil
}

// WriteWAV encodes interleaved float samples as 16-bit PCM. Samples outside
// [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate, channels int) error {
	if sampleRate <= 0 || channels < 1 {
		return fmt.Errorf("%w: wav %d Hz x%d", ErrInvalidConfig, sampleRate, channels)
	}
	data := make([]int, len(samples))
	for i, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		data[i] = int(math.Round(v * math.MaxInt16))
	}
	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}
