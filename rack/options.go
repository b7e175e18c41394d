package rack

type config struct {
	modules int
	cables  int
}

// Option configures a Rack.
type Option func(*config)

// WithCapacity pre-sizes the module and cable storage so that adding up to
// the given number of each does not reallocate.
func WithCapacity(modules, cables int) Option {
	return func(cfg *config) {
		if modules > 0 {
			cfg.modules = modules
		}

		if cables > 0 {
			cfg.cables = cables
		}
	}
}

func applyOptions(opts ...Option) config {
	cfg := config{modules: 16, cables: 32}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
