package modules

import (
	"github.com/cwbudde/algo-rack/module"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type registryConfig struct {
	midiPort   drivers.In
	midiErrors func(error)
	vcfPolicy  StabilityPolicy
}

// RegistryOption configures DefaultRegistry.
type RegistryOption func(*registryConfig)

// WithMIDIInPort makes "midi-in" modules listen to port. onError receives
// listener errors and may be nil.
func WithMIDIInPort(port drivers.In, onError func(error)) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.midiPort = port
		cfg.midiErrors = onError
	}
}

// WithVCFPolicy sets the stability policy of "vcf" modules.
func WithVCFPolicy(p StabilityPolicy) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.vcfPolicy = p
	}
}

// DefaultRegistry returns a registry holding every module of this package
// under its lowercase identifier.
func DefaultRegistry(opts ...RegistryOption) *module.Registry {
	var cfg registryConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := module.NewRegistry()
	r.MustRegister("clock", func() (module.Module, error) { return NewClock(), nil })
	r.MustRegister("lfo", func() (module.Module, error) { return NewLFO(), nil })
	r.MustRegister("vco", func() (module.Module, error) { return NewVCO(), nil })
	r.MustRegister("vcf", func() (module.Module, error) {
		return NewVCF(WithStabilityPolicy(cfg.vcfPolicy))
	})
	r.MustRegister("adsr", func() (module.Module, error) { return NewADSR(), nil })
	r.MustRegister("vca", func() (module.Module, error) { return NewVCA(), nil })
	r.MustRegister("sequencer", func() (module.Module, error) { return NewSequencer(), nil })
	r.MustRegister("midi-in", func() (module.Module, error) {
		m := NewMIDIIn()
		if cfg.midiPort == nil {
			return m, nil
		}

		if err := m.Listen(cfg.midiPort, cfg.midiErrors); err != nil {
			return nil, err
		}

		return m, nil
	})

	return r
}
