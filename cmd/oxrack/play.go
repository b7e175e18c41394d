package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register the MIDI driver

	"github.com/cwbudde/algo-rack/audiohost"
	"github.com/cwbudde/algo-rack/audiohost/otohost"
	"github.com/cwbudde/algo-rack/audiohost/pahost"
	"github.com/cwbudde/algo-rack/internal/config"
	"github.com/cwbudde/algo-rack/internal/tui"
	"github.com/cwbudde/algo-rack/modules"
	"github.com/cwbudde/algo-rack/patch"
	"github.com/cwbudde/algo-rack/rack"
)

var errNoMIDIPort = errors.New("no matching MIDI input port")

func runPlay(cfg *config.Config, args []string, withTUI bool) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	state, err := loadState(fs.Arg(0))
	if err != nil {
		return err
	}

	var regOpts []modules.RegistryOption

	if cfg.MIDIPort != "" {
		port, err := findInPort(cfg.MIDIPort)
		if err != nil {
			return err
		}
		defer port.Close()

		logger.Info("MIDI input", "port", port.String())
		regOpts = append(regOpts, modules.WithMIDIInPort(port, func(err error) {
			logger.Warn("MIDI input error", "port", port.String(), "err", err)
		}))
	}

	host := newHost(cfg, backendFor(cfg.Backend), len(state.Modules)+len(state.Connections))
	reg := modules.DefaultRegistry(regOpts...)
	r := rack.New(rack.WithCapacity(len(state.Modules), len(state.Connections)))

	if !withTUI {
		// Build offline, then hand the finished rack to the callback.
		p := patch.New(reg, r)
		defer closeMIDI(p)

		if err := p.Load(state); err != nil {
			return err
		}

		logger.Info("playing", "modules", len(state.Modules), "cables", len(state.Connections))

		return host.RunForever(context.Background(), r)
	}

	if err := host.Start(r); err != nil {
		return err
	}

	// Loading through the host queues every module and cable as commands.
	p := patch.New(reg, host)
	defer closeMIDI(p)

	if err := p.Load(state); err != nil {
		_ = host.Close()
		return err
	}

	status := func() string {
		return fmt.Sprintf("%s %d Hz  %d modules  %d dropped",
			cfg.Backend, cfg.SampleRate, len(state.Modules), host.Dropped())
	}

	if err := tui.Run(p.Modules(), status); err != nil {
		_ = host.Close()
		return err
	}

	return host.Close()
}

func newHost(cfg *config.Config, backend audiohost.Backend, commands int) *audiohost.Host {
	return audiohost.New(backend,
		audiohost.WithSampleRate(cfg.SampleRate),
		audiohost.WithBufferFrames(cfg.BufferFrames),
		audiohost.WithQueueCapacity(max(cfg.QueueCapacity, commands)),
		audiohost.WithLogger(logger))
}

func backendFor(b config.Backend) audiohost.Backend {
	if b == config.BackendPortAudio {
		return pahost.New()
	}

	return otohost.New()
}

// findInPort opens the first MIDI input whose name contains name,
// ignoring case.
func findInPort(name string) (drivers.In, error) {
	for _, in := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(in.String()), strings.ToLower(name)) {
			if err := in.Open(); err != nil {
				return nil, fmt.Errorf("open MIDI input %q: %w", in.String(), err)
			}

			return in, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errNoMIDIPort, name)
}

func closeMIDI(p *patch.Patch) {
	for _, inst := range p.Modules() {
		if m, ok := inst.Module.(*modules.MIDIIn); ok {
			_ = m.Close()
		}
	}
}
