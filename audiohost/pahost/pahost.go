// Package pahost is an audiohost backend on the PortAudio default output
// device.
package pahost

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-rack/audiohost"
)

// Backend opens mono float32 streams on the default output device.
type Backend struct{}

// New returns a PortAudio backend.
func New() *Backend {
	return &Backend{}
}

// Open implements audiohost.Backend. Each stream holds its own PortAudio
// initialization, released by Close.
func (*Backend) Open(cfg audiohost.StreamConfig, render audiohost.RenderFunc) (audiohost.Stream, error) {
	if cfg.Channels != 1 || cfg.SampleRate <= 0 || cfg.BufferFrames <= 0 {
		return nil, fmt.Errorf("pahost: %d channels at %d Hz, %d frames: %w",
			cfg.Channels, cfg.SampleRate, cfg.BufferFrames, audiohost.ErrStreamConfig)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("pahost: initialize: %w: %w", audiohost.ErrBuildStream, err)
	}

	if _, err := portaudio.DefaultOutputDevice(); err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("pahost: %w: %w", audiohost.ErrNoOutputDevice, err)
	}

	s, err := portaudio.OpenDefaultStream(0, 1, float64(cfg.SampleRate), cfg.BufferFrames, func(out []float32) {
		render(out)
	})
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("pahost: open default stream: %w: %w", audiohost.ErrStreamConfig, err)
	}

	return &stream{stream: s, sampleRate: cfg.SampleRate}, nil
}

type stream struct {
	stream     *portaudio.Stream
	sampleRate int
}

func (s *stream) SampleRate() int {
	if info := s.stream.Info(); info != nil && info.SampleRate > 0 {
		return int(info.SampleRate)
	}

	return s.sampleRate
}

func (s *stream) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("pahost: %w: %w", audiohost.ErrPlayStream, err)
	}

	return nil
}

func (s *stream) Close() error {
	err := s.stream.Close()
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}

	if err != nil {
		return fmt.Errorf("pahost: close: %w", err)
	}

	return nil
}
