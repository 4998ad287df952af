// Package config loads the runtime settings of the dawplay command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the device and mixing settings. The zero value is not usable;
// start from Default.
type Config struct {
	SampleRate int           `yaml:"sample_rate"`
	Channels   int           `yaml:"channels"`
	Backend    string        `yaml:"backend"`
	Volume     float64       `yaml:"volume"`
	Buffer     time.Duration `yaml:"buffer"`
	LogLevel   string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		SampleRate: 48000,
		Channels:   2,
		Backend:    "ebiten",
		Volume:     1,
		LogLevel:   "info",
	}
}

// Load reads the defaults, then the YAML file at path if it exists, then
// DAW_* environment overrides, and validates the result. An empty path skips
// the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("DAW_SAMPLE_RATE"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DAW_SAMPLE_RATE %q", ErrInvalidConfig, v)
		}
		cfg.SampleRate = i
	}
	if v := os.Getenv("DAW_CHANNELS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DAW_CHANNELS %q", ErrInvalidConfig, v)
		}
		cfg.Channels = i
	}
	if v := os.Getenv("DAW_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("DAW_VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: DAW_VOLUME %q", ErrInvalidConfig, v)
		}
		cfg.Volume = f
	}
	if v := os.Getenv("DAW_BUFFER"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: DAW_BUFFER %q", ErrInvalidConfig, v)
		}
		cfg.Buffer = d
	}
	if v := os.Getenv("DAW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Channels < 1 {
		return fmt.Errorf("%w: channels %d", ErrInvalidConfig, c.Channels)
	}
	switch c.Backend {
	case "ebiten":
		if c.Channels != 2 {
			return fmt.Errorf("%w: backend ebiten needs 2 channels, got %d", ErrInvalidConfig, c.Channels)
		}
	case "oto":
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Volume < 0 || math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) {
		return fmt.Errorf("%w: volume %v", ErrInvalidConfig, c.Volume)
	}
	if c.Buffer < 0 {
		return fmt.Errorf("%w: buffer %v", ErrInvalidConfig, c.Buffer)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel for slog.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return l, nil
}
