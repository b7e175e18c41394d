// Command oxrack plays and renders modular synthesizer patches.
//
// Usage:
//
//	oxrack [global flags] <command> [flags] [patch]
//
// Commands:
//
//	list     print the registered modules and the MIDI input ports
//	play     play a patch on the audio device until interrupted
//	tui      play a patch and edit its parameters in the terminal
//	render   render a patch to a WAV file
//	demo     write the built-in demo patch as JSON
//
// A patch is a JSON state file or a Lua script (.lua). Without a patch the
// built-in demo voice is used.
//
// Examples:
//
//	oxrack list
//	oxrack play voice.json
//	oxrack -backend portaudio -midi keystep tui voice.lua
//	oxrack render -seconds 4 -o voice.wav voice.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cwbudde/algo-rack/internal/config"
)

var logger = slog.Default()

// initLogger installs a text handler on stderr. Debug mode adds source
// positions.
func initLogger(level slog.Level, debug bool) {
	if debug {
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

type globalFlags struct {
	configPath string
	backend    string
	sampleRate int
	frames     int
	midiPort   string
	debug      bool
}

var errUsage = errors.New("usage")

func main() {
	var g globalFlags

	flag.StringVar(&g.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/algo-rack/config.json)")
	flag.StringVar(&g.backend, "backend", "", "audio backend: oto or portaudio")
	flag.IntVar(&g.sampleRate, "rate", 0, "sample rate in Hz")
	flag.IntVar(&g.frames, "frames", 0, "audio buffer size in frames")
	flag.StringVar(&g.midiPort, "midi", "", "MIDI input port (substring match) for midi-in modules")
	flag.BoolVar(&g.debug, "debug", false, "debug logging with source positions")
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	initLogger(cfg.Level(), g.debug)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(cfg, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		logger.Error("oxrack failed", "command", args[0], "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: oxrack [flags] <list|play|tui|render|demo> [command flags] [patch]\n\n")
	fmt.Fprintf(os.Stderr, "Plays and renders modular synthesizer patches.\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  oxrack list\n")
	fmt.Fprintf(os.Stderr, "  oxrack play voice.json\n")
	fmt.Fprintf(os.Stderr, "  oxrack -backend portaudio -midi keystep tui voice.lua\n")
	fmt.Fprintf(os.Stderr, "  oxrack render -seconds 4 -o voice.wav voice.json\n")
}

func run(cfg *config.Config, command string, args []string) error {
	switch command {
	case "list":
		return runList(os.Stdout)
	case "play":
		return runPlay(cfg, args, false)
	case "tui":
		return runPlay(cfg, args, true)
	case "render":
		return runRender(cfg, args)
	case "demo":
		return runDemo(args)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", command)
		usage()

		return errUsage
	}
}

// loadConfig reads the config file and applies the global flags over it.
func loadConfig(g globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load()
	}

	if err != nil {
		return nil, err
	}

	if g.backend != "" {
		cfg.Backend = config.Backend(g.backend)
	}

	if g.sampleRate > 0 {
		cfg.SampleRate = g.sampleRate
	}

	if g.frames > 0 {
		cfg.BufferFrames = g.frames
	}

	if g.midiPort != "" {
		cfg.MIDIPort = g.midiPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
