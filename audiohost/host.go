package audiohost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/internal/ring"
	"github.com/cwbudde/algo-rack/module"
	"github.com/cwbudde/algo-rack/rack"
)

const (
	failureCapacity = 64
	monitorInterval = 50 * time.Millisecond
)

type hostState uint8

const (
	stateIdle hostState = iota
	stateRunning
	stateFailed
	stateClosed
)

// Host plays a rack on a backend stream.
//
// Host methods are safe for concurrent use. Commands are handed to the
// audio callback in the order the methods return.
type Host struct {
	cfg     Config
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	state  hostState
	stream Stream
	next   module.Handle
	done   chan struct{}
	wg     sync.WaitGroup

	commands *ring.Ring[Command]
	failures *ring.Ring[Failure]
	dropped  atomic.Uint64

	// owned by the audio callback after Start
	rack *rack.Rack
}

// New returns a host that opens its stream on backend.
func New(backend Backend, opts ...Option) *Host {
	cfg := applyOptions(opts...)

	return &Host{
		cfg:      cfg,
		backend:  backend,
		logger:   cfg.Logger,
		commands: ring.New[Command](cfg.QueueCapacity),
		failures: ring.New[Failure](failureCapacity),
	}
}

// Config returns the host configuration.
func (h *Host) Config() Config {
	return h.cfg
}

// Start opens a mono stream, resets r at the negotiated sample rate and
// starts playback. From then on the audio callback owns r and the caller
// must not touch it. A host whose Start failed stays unusable.
func (h *Host) Start(r *rack.Rack) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case stateRunning:
		return ErrAlreadyStarted
	case stateFailed:
		return ErrHostFailed
	case stateClosed:
		return ErrClosed
	}

	if r == nil {
		return errors.New("audiohost: start: nil rack")
	}

	h.rack = r
	h.next = r.NextHandle()

	stream, err := h.backend.Open(StreamConfig{
		SampleRate:   h.cfg.SampleRate,
		Channels:     1,
		BufferFrames: h.cfg.BufferFrames,
	}, h.render)
	if err != nil {
		h.state = stateFailed
		return fmt.Errorf("audiohost: open stream: %w", classify(err))
	}

	rate := stream.SampleRate()
	if rate <= 0 {
		_ = stream.Close()
		h.state = stateFailed

		return fmt.Errorf("audiohost: negotiated sample rate %d: %w", rate, ErrStreamConfig)
	}

	r.Reset(rate)

	h.done = make(chan struct{})
	h.wg.Add(1)
	go h.monitor(h.done)

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		close(h.done)
		h.wg.Wait()
		h.state = stateFailed

		if !errors.Is(err, ErrPlayStream) {
			err = fmt.Errorf("%w: %w", ErrPlayStream, err)
		}

		return fmt.Errorf("audiohost: start stream: %w", err)
	}

	h.stream = stream
	h.state = stateRunning
	h.logger.Info("audio host started",
		"sample_rate", rate,
		"buffer_frames", h.cfg.BufferFrames,
		"modules", r.Len())

	return nil
}

// classify makes sure a backend open error carries one of the open-stage
// sentinels.
func classify(err error) error {
	if errors.Is(err, ErrNoOutputDevice) || errors.Is(err, ErrStreamConfig) || errors.Is(err, ErrBuildStream) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrBuildStream, err)
}

// Send queues cmd for the audio callback. It never blocks.
func (h *Host) Send(cmd Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.send(cmd)
}

func (h *Host) send(cmd Command) error {
	switch h.state {
	case stateIdle:
		return ErrNotStarted
	case stateFailed:
		return ErrHostFailed
	case stateClosed:
		return ErrClosed
	}

	if !h.commands.Push(cmd) {
		return fmt.Errorf("audiohost: %v: %w", cmd.Kind, ErrQueueFull)
	}

	if cmd.Kind == CommandAddModule && !cmd.Handle.IsSink() && cmd.Handle >= h.next {
		h.next = cmd.Handle + 1
	}

	return nil
}

// AddUnit allocates the next handle and queues unit for insertion under
// it. The handle is valid for Connect immediately.
func (h *Host) AddUnit(unit module.AudioUnit, inputs, outputs int) (module.Handle, error) {
	if unit == nil {
		return 0, fmt.Errorf("audiohost: add: %w", rack.ErrInvalidModule)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.next
	if handle.IsSink() {
		return 0, fmt.Errorf("audiohost: add: %w", rack.ErrHandlesExhausted)
	}

	if err := h.send(AddModule(handle, inputs, outputs, unit)); err != nil {
		return 0, err
	}

	return handle, nil
}

// Connect queues a cable from src to dst. Endpoint validation happens in
// the callback; rejections are logged.
func (h *Host) Connect(src module.Output, dst module.Input) error {
	return h.Send(Connect(src, dst))
}

// Disconnect queues the removal of a cable from src to dst.
func (h *Host) Disconnect(src module.Output, dst module.Input) error {
	return h.Send(Disconnect(src, dst))
}

// Dropped returns the number of failures discarded because the failure
// queue was full.
func (h *Host) Dropped() uint64 {
	return h.dropped.Load()
}

// Close stops the stream and the monitor. Pending failures are logged
// before Close returns. Close is idempotent.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateRunning {
		if h.state == stateIdle {
			h.state = stateClosed
		}

		return nil
	}

	err := h.stream.Close()

	close(h.done)
	h.wg.Wait()
	h.state = stateClosed
	h.logger.Info("audio host stopped")

	if err != nil {
		return fmt.Errorf("audiohost: close stream: %w", err)
	}

	return nil
}

// RunForever starts r and blocks until ctx is done or the process receives
// SIGINT or SIGTERM, then closes the host.
func (h *Host) RunForever(ctx context.Context, r *rack.Rack) error {
	if err := h.Start(r); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	return h.Close()
}

// render is the audio callback.
func (h *Host) render(out []float32) {
	n := 0

	defer func() {
		if p := recover(); p != nil {
			clear(out[n:])
			h.report(Failure{Kind: FailurePanic, Panic: p})
		}
	}()

	for {
		cmd, ok := h.commands.Pop()
		if !ok {
			break
		}

		if err := h.apply(cmd); err != nil {
			h.report(Failure{Kind: FailureCommand, Command: cmd, Err: err})
		}
	}

	for n = range out {
		out[n] = h.rack.Tick() / eurorack.AudioVolts
	}
}

func (h *Host) apply(cmd Command) error {
	switch cmd.Kind {
	case CommandAddModule:
		return h.rack.Insert(cmd.Handle, cmd.Unit, cmd.Inputs, cmd.Outputs)
	case CommandConnect:
		return h.rack.Connect(cmd.Src, cmd.Dst)
	case CommandDisconnect:
		return h.rack.Disconnect(cmd.Src, cmd.Dst)
	default:
		return ErrInvalidCommand
	}
}

func (h *Host) report(f Failure) {
	if !h.failures.Push(f) {
		h.dropped.Add(1)
	}
}

func (h *Host) monitor(done <-chan struct{}) {
	defer h.wg.Done()

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	var dropped uint64

	for {
		select {
		case <-done:
			h.drainFailures(&dropped)
			return
		case <-ticker.C:
			h.drainFailures(&dropped)
		}
	}
}

func (h *Host) drainFailures(seen *uint64) {
	for {
		f, ok := h.failures.Pop()
		if !ok {
			break
		}

		switch f.Kind {
		case FailurePanic:
			h.logger.Error("audio callback panicked", "panic", f.Panic)
		default:
			h.logger.Warn("command rejected", "command", f.Command.String(), "err", f.Err)
		}
	}

	if total := h.dropped.Load(); total > *seen {
		h.logger.Warn("failures dropped", "count", total-*seen)
		*seen = total
	}
}
