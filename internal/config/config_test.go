package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, "sample_rate: 44100\nbackend: oto\nchannels: 1\nbuffer: 20ms\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, "oto", cfg.Backend)
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, 20*time.Millisecond, cfg.Buffer)
	assert.Equal(t, 1.0, cfg.Volume)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "volume: 0.5\n")
	t.Setenv("DAW_VOLUME", "0.25")
	t.Setenv("DAW_LOG_LEVEL", "debug")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Volume)
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "sample_rate: [\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"rate":        func(c *Config) { c.SampleRate = 0 },
		"channels":    func(c *Config) { c.Channels = 0 },
		"backend":     func(c *Config) { c.Backend = "jack" },
		"ebiten mono": func(c *Config) { c.Channels = 1 },
		"volume":      func(c *Config) { c.Volume = -1 },
		"buffer":      func(c *Config) { c.Buffer = -time.Second },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsUnparseableEnvironment(t *testing.T) {
	cases := map[string]string{
		"DAW_SAMPLE_RATE": "forty-eight-k",
		"DAW_CHANNELS":    "stereo",
		"DAW_VOLUME":      "loud",
		"DAW_BUFFER":      "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadBufferFromEnvironment(t *testing.T) {
	t.Setenv("DAW_BUFFER", "35ms")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 35*time.Millisecond, cfg.Buffer)
}
