package eurorack

// TriggerMillis is the length of a standard trigger pulse.
const TriggerMillis = 1.0

// PulseGenerator emits fixed-length CV pulses on demand.
type PulseGenerator struct {
	duration  *Duration
	remaining int
}

// NewPulseGenerator returns a generator holding each pulse for durationMs.
func NewPulseGenerator(durationMs float32) *PulseGenerator {
	return &PulseGenerator{duration: NewDuration(durationMs / 1000)}
}

// NewTriggerGenerator returns a generator suitable for trigger signals.
func NewTriggerGenerator() *PulseGenerator {
	return NewPulseGenerator(TriggerMillis)
}

// Reset updates the sample rate.
func (p *PulseGenerator) Reset(sampleRate int) {
	p.duration.Reset(sampleRate)
}

// Trigger starts a new pulse, restarting one in progress.
func (p *PulseGenerator) Trigger() {
	p.remaining = p.duration.Samples()
}

// Tick advances by one sample and returns the pulse voltage.
func (p *PulseGenerator) Tick() Voltage {
	if p.remaining > 0 {
		p.remaining--

		return CVVolts
	}

	return 0
}
