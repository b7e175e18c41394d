package audiohost

import "errors"

var (
	// ErrNoOutputDevice is returned when no default output device exists.
	ErrNoOutputDevice = errors.New("audiohost: no output device")
	// ErrStreamConfig is returned when the device rejects the stream settings.
	ErrStreamConfig = errors.New("audiohost: unsupported stream config")
	// ErrBuildStream is returned when the stream cannot be created.
	ErrBuildStream = errors.New("audiohost: failed to build stream")
	// ErrPlayStream is returned when the stream cannot be started.
	ErrPlayStream = errors.New("audiohost: failed to play stream")
	// ErrHostFailed is returned by every call on a host whose Start failed.
	ErrHostFailed = errors.New("audiohost: host failed to start")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("audiohost: already started")
	// ErrNotStarted is returned when commands are sent before Start.
	ErrNotStarted = errors.New("audiohost: not started")
	// ErrQueueFull is returned when the command queue has no free slot.
	ErrQueueFull = errors.New("audiohost: command queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("audiohost: closed")
	// ErrInvalidCommand is reported for commands of an unknown kind.
	ErrInvalidCommand = errors.New("audiohost: invalid command")
)
