package audiohost

import "log/slog"

// Config holds the host settings requested from the backend.
type Config struct {
	SampleRate    int
	BufferFrames  int
	QueueCapacity int
	Logger        *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 48 kHz, 64-frame buffers and a 256-command queue.
func DefaultConfig() Config {
	return Config{
		SampleRate:    48000,
		BufferFrames:  64,
		QueueCapacity: 256,
		Logger:        slog.Default(),
	}
}

// WithSampleRate sets the requested sample rate. The backend may
// negotiate a different one.
func WithSampleRate(sampleRate int) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBufferFrames sets the requested callback buffer size in frames.
func WithBufferFrames(frames int) Option {
	return func(cfg *Config) {
		if frames > 0 {
			cfg.BufferFrames = frames
		}
	}
}

// WithQueueCapacity sets the capacity of the command queue.
func WithQueueCapacity(capacity int) Option {
	return func(cfg *Config) {
		if capacity > 0 {
			cfg.QueueCapacity = capacity
		}
	}
}

// WithLogger sets the logger used by the failure monitor.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
