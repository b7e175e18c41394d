// Package config loads and saves the oxrack user configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Backend names an audio output backend.
type Backend string

const (
	BackendOto       Backend = "oto"
	BackendPortAudio Backend = "portaudio"
)

// ErrInvalid is returned for configurations that cannot be used.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the user configuration.
type Config struct {
	Backend       Backend `json:"backend"`
	SampleRate    int     `json:"sampleRate"`
	BufferFrames  int     `json:"bufferFrames"`
	QueueCapacity int     `json:"queueCapacity,omitempty"`
	MIDIPort      string  `json:"midiPort,omitempty"` // substring of the input port name
	LogLevel      string  `json:"logLevel,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend:       BackendOto,
		SampleRate:    48000,
		BufferFrames:  256,
		QueueCapacity: 256,
		LogLevel:      "info",
	}
}

// Dir returns the config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(base, "algo-rack"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if
// there is none.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults;
// a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}

		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate reports unusable values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOto, BackendPortAudio:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.SampleRate)
	}

	if c.BufferFrames <= 0 {
		return fmt.Errorf("%w: buffer frames %d", ErrInvalid, c.BufferFrames)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)

	return level
}

// ParseLevel parses debug, info, warn or error. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}

	return level, nil
}
