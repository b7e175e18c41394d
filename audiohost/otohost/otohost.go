// Package otohost is an audiohost backend on github.com/ebitengine/oto/v3.
//
// oto allows one context per process, so a Backend can open at most one
// stream.
package otohost

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-rack/audiohost"
)

const bytesPerSample = 4

// Backend opens float32 little-endian mono players.
type Backend struct {
	mu     sync.Mutex
	opened bool
}

// New returns an oto backend.
func New() *Backend {
	return &Backend{}
}

// Open implements audiohost.Backend.
func (b *Backend) Open(cfg audiohost.StreamConfig, render audiohost.RenderFunc) (audiohost.Stream, error) {
	if cfg.Channels != 1 || cfg.SampleRate <= 0 || cfg.BufferFrames <= 0 {
		return nil, fmt.Errorf("otohost: %d channels at %d Hz, %d frames: %w",
			cfg.Channels, cfg.SampleRate, cfg.BufferFrames, audiohost.ErrStreamConfig)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.opened {
		return nil, fmt.Errorf("otohost: context already in use: %w", audiohost.ErrBuildStream)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(cfg.BufferFrames) * time.Second / time.Duration(cfg.SampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("otohost: %w: %w", audiohost.ErrNoOutputDevice, err)
	}

	<-ready

	b.opened = true

	return &stream{
		ctx:        ctx,
		sampleRate: cfg.SampleRate,
		frames:     cfg.BufferFrames,
		reader:     &reader{render: render, samples: make([]float32, cfg.BufferFrames*4)},
	}, nil
}

type stream struct {
	ctx        *oto.Context
	player     *oto.Player
	sampleRate int
	frames     int
	reader     *reader
}

func (s *stream) SampleRate() int { return s.sampleRate }

func (s *stream) Start() error {
	s.player = s.ctx.NewPlayer(s.reader)
	s.player.SetBufferSize(s.frames * bytesPerSample)
	s.player.Play()

	if err := s.player.Err(); err != nil {
		return fmt.Errorf("otohost: %w: %w", audiohost.ErrPlayStream, err)
	}

	return nil
}

func (s *stream) Close() error {
	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return fmt.Errorf("otohost: close player: %w", err)
		}

		s.player = nil
	}

	return s.ctx.Suspend()
}

// reader adapts a RenderFunc to the io.Reader oto pulls from.
type reader struct {
	render  audiohost.RenderFunc
	samples []float32
}

func (r *reader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerSample
	if n == 0 {
		return 0, nil
	}

	if len(r.samples) < n {
		r.samples = make([]float32, n)
	}

	samples := r.samples[:n]
	r.render(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}

	return n * bytesPerSample, nil
}
