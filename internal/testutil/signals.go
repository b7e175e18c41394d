package testutil

import (
	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// Sequence is a unit with one output that plays back Samples and then holds
// the last one.
type Sequence struct {
	Samples []eurorack.Voltage
	pos     int
}

// Reset rewinds the sequence.
func (s *Sequence) Reset(int) { s.pos = 0 }

// Tick implements module.AudioUnit.
func (s *Sequence) Tick(_ []module.Jack, out []eurorack.Voltage) {
	if len(s.Samples) == 0 {
		out[0] = 0

		return
	}

	out[0] = s.Samples[min(s.pos, len(s.Samples)-1)]
	s.pos++
}

// DC generates a constant-valued signal.
func DC(value eurorack.Voltage, length int) []eurorack.Voltage {
	out := make([]eurorack.Voltage, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Gate generates a gate that is high (CVVolts) for the first high samples
// of length.
func Gate(high, length int) []eurorack.Voltage {
	out := make([]eurorack.Voltage, length)
	for i := 0; i < high && i < length; i++ {
		out[i] = eurorack.CVVolts
	}

	return out
}

// PulseTrain generates pulses of width samples every period samples,
// starting high at index 0.
func PulseTrain(period, width, length int) []eurorack.Voltage {
	out := make([]eurorack.Voltage, length)
	if period <= 0 {
		return out
	}

	for i := range out {
		if i%period < width {
			out[i] = eurorack.CVVolts
		}
	}

	return out
}

// Jacks returns patched jacks carrying vs.
func Jacks(vs ...eurorack.Voltage) []module.Jack {
	out := make([]module.Jack, len(vs))
	for i, v := range vs {
		out[i] = module.Jack{Value: v, Patched: true}
	}

	return out
}

// Drive resets u and ticks it length times, reading inputs from in (which
// may be nil when u has no inputs). It returns one recording per output
// channel.
func Drive(u module.AudioUnit, sampleRate, outputs int, in func(i int) []module.Jack, length int) [][]eurorack.Voltage {
	u.Reset(sampleRate)

	rec := make([][]eurorack.Voltage, outputs)
	for ch := range rec {
		rec[ch] = make([]eurorack.Voltage, length)
	}

	out := make([]eurorack.Voltage, outputs)

	var jacks []module.Jack
	for i := range length {
		if in != nil {
			jacks = in(i)
		}

		u.Tick(jacks, out)

		for ch, v := range out {
			rec[ch][i] = v
		}
	}

	return rec
}

// Float64s widens a recording for analysis.
func Float64s(vs []eurorack.Voltage) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}

	return out
}
