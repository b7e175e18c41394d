package audiohost

// StreamConfig describes the stream a host asks a backend to open.
type StreamConfig struct {
	SampleRate   int
	Channels     int
	BufferFrames int
}

// RenderFunc fills out with mono samples in [-1, 1]. It is called on the
// backend's audio thread.
type RenderFunc func(out []float32)

// Backend opens output streams on an audio device.
//
// Open should wrap ErrNoOutputDevice, ErrStreamConfig or ErrBuildStream
// so callers can tell the failure stages apart.
type Backend interface {
	Open(cfg StreamConfig, render RenderFunc) (Stream, error)
}

// Stream is an opened output stream.
type Stream interface {
	// SampleRate returns the rate negotiated with the device.
	SampleRate() int
	// Start begins calling the render function. Failures wrap ErrPlayStream.
	Start() error
	Close() error
}
