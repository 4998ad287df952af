package audio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendLookup(t *testing.T) {
	for _, name := range []string{"", BackendEbiten, BackendOto} {
		f, err := Backend(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := Backend("alsa")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestEbitenOutputIsStereoOnly(t *testing.T) {
	_, err := EbitenOutput(OutputConfig{SampleRate: 48000, Channels: 1}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedChannels)
}

func TestOtoOutputRejectsNoChannels(t *testing.T) {
	_, err := OtoOutput(OutputConfig{SampleRate: 48000}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedChannels)
}
