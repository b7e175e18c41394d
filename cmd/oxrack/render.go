package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-rack/audiohost"
	"github.com/cwbudde/algo-rack/internal/config"
	"github.com/cwbudde/algo-rack/internal/wavfile"
	"github.com/cwbudde/algo-rack/measure/pitch"
	"github.com/cwbudde/algo-rack/modules"
	"github.com/cwbudde/algo-rack/patch"
	"github.com/cwbudde/algo-rack/rack"
)

type renderOptions struct {
	output  string
	seconds float64
	bits    int
	analyze bool
}

func runRender(cfg *config.Config, args []string) error {
	var opts renderOptions

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVar(&opts.output, "o", "out.wav", "output WAV file")
	fs.Float64Var(&opts.seconds, "seconds", 4, "length to render")
	fs.IntVar(&opts.bits, "bits", 16, "WAV bit depth (16, 24 or 32)")
	fs.BoolVar(&opts.analyze, "analyze", false, "print the estimated fundamental of the rendered audio")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if opts.seconds <= 0 {
		return fmt.Errorf("render: -seconds must be positive, got %v", opts.seconds)
	}

	state, err := loadState(fs.Arg(0))
	if err != nil {
		return err
	}

	samples, err := renderState(cfg, state, int(opts.seconds*float64(cfg.SampleRate)))
	if err != nil {
		return err
	}

	if err := wavfile.WriteFile(opts.output, samples, cfg.SampleRate, opts.bits); err != nil {
		return err
	}

	logger.Info("rendered", "file", opts.output, "seconds", opts.seconds, "sample_rate", cfg.SampleRate)

	if opts.analyze {
		return printAnalysis(os.Stdout, samples, cfg.SampleRate)
	}

	return nil
}

// renderState plays state on an offline host for the given number of
// frames.
func renderState(cfg *config.Config, state patch.State, frames int) ([]float32, error) {
	backend := audiohost.NewOffline(cfg.SampleRate)
	host := newHost(cfg, backend, len(state.Modules)+len(state.Connections))

	if err := host.Start(rack.New(rack.WithCapacity(len(state.Modules), len(state.Connections)))); err != nil {
		return nil, err
	}

	p := patch.New(modules.DefaultRegistry(), host)
	if err := p.Load(state); err != nil {
		return nil, errors.Join(err, host.Close())
	}

	samples, err := backend.Render(frames)
	if err != nil {
		return nil, errors.Join(err, host.Close())
	}

	return samples, host.Close()
}

func printAnalysis(w io.Writer, samples []float32, sampleRate int) error {
	signal := make([]float64, len(samples))
	for i, v := range samples {
		signal[i] = float64(v)
	}

	res, err := pitch.Estimate(signal, float64(sampleRate))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "peak: %.2f Hz (bin %.1f of %d, magnitude %.3g)\n", res.Frequency, res.Bin, res.FFTSize, res.Magnitude)

	if period, ok := pitch.ZeroCrossingPeriod(signal); ok {
		fmt.Fprintf(w, "zero crossings: %.2f Hz\n", float64(sampleRate)/period)
	}

	return nil
}

func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	output := fs.String("o", "", "write to file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	state, err := demoState()
	if err != nil {
		return err
	}

	if *output == "" {
		return patch.Encode(os.Stdout, state)
	}

	return patch.WriteFile(*output, state)
}
