package audiohost

import "fmt"

// Offline is a Backend without a device. Its stream calls the render
// function only from Render and RenderInto, on the caller's goroutine, in
// chunks of the configured buffer size.
type Offline struct {
	// OpenErr and StartErr, when set, are returned by Open and Start.
	OpenErr  error
	StartErr error

	sampleRate int
	frames     int
	render     RenderFunc
	started    bool
	closed     bool
}

// NewOffline returns an offline backend running at sampleRate. A zero rate
// accepts whatever the host requests.
func NewOffline(sampleRate int) *Offline {
	return &Offline{sampleRate: sampleRate}
}

// Open implements Backend. Only mono streams are supported.
func (o *Offline) Open(cfg StreamConfig, render RenderFunc) (Stream, error) {
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}

	if cfg.Channels != 1 {
		return nil, fmt.Errorf("offline: %d channels: %w", cfg.Channels, ErrStreamConfig)
	}

	if render == nil {
		return nil, fmt.Errorf("offline: nil render func: %w", ErrBuildStream)
	}

	if o.sampleRate <= 0 {
		o.sampleRate = cfg.SampleRate
	}

	o.frames = max(cfg.BufferFrames, 1)
	o.render = render
	o.started = false
	o.closed = false

	return o, nil
}

// SampleRate implements Stream.
func (o *Offline) SampleRate() int {
	return o.sampleRate
}

// Start implements Stream.
func (o *Offline) Start() error {
	if o.StartErr != nil {
		return o.StartErr
	}

	o.started = true

	return nil
}

// Close implements Stream.
func (o *Offline) Close() error {
	o.closed = true
	o.started = false

	return nil
}

// Render runs the callback for the given number of frames and returns the
// samples.
func (o *Offline) Render(frames int) ([]float32, error) {
	out := make([]float32, max(frames, 0))
	if err := o.RenderInto(out); err != nil {
		return nil, err
	}

	return out, nil
}

// RenderInto fills out by running the callback on consecutive
// buffer-sized chunks. The final chunk may be shorter.
func (o *Offline) RenderInto(out []float32) error {
	if o.closed {
		return ErrClosed
	}

	if !o.started {
		return ErrNotStarted
	}

	for start := 0; start < len(out); start += o.frames {
		o.render(out[start:min(start+o.frames, len(out))])
	}

	return nil
}
