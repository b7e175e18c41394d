package eurorack

// Duration is a time span kept in seconds and converted to a sample count
// using the most recent sample rate. Both values may be updated from the
// control goroutine while the audio goroutine reads them.
type Duration struct {
	sampleRate atomicFloat
	seconds    atomicFloat
}

// NewDuration returns a Duration of the given length in seconds. Samples
// returns 0 until Reset has been called.
func NewDuration(seconds float32) *Duration {
	d := &Duration{}
	d.seconds.store(seconds)

	return d
}

// Reset records the sample rate used for sample conversions.
func (d *Duration) Reset(sampleRate int) {
	d.sampleRate.store(float32(sampleRate))
}

// Seconds returns the duration in seconds.
func (d *Duration) Seconds() float32 {
	return d.seconds.load()
}

// SetSeconds updates the duration. Negative values are treated as zero.
func (d *Duration) SetSeconds(seconds float32) {
	d.seconds.store(max(seconds, 0))
}

// Samples returns the duration as a whole number of samples, truncated.
func (d *Duration) Samples() int {
	return int(d.sampleRate.load() * d.seconds.load())
}

// Value returns the duration in seconds.
func (d *Duration) Value() float32 { return d.Seconds() }

// SetValue sets the duration in seconds.
func (d *Duration) SetValue(v float32) { d.SetSeconds(v) }
