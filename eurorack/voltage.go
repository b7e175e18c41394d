package eurorack

import (
	"math"
	"strconv"
)

// Voltage is the type of a single sample exchanged between modules.
type Voltage = float32

const (
	// AudioVolts is the peak level of audio signals (±5 V).
	AudioVolts Voltage = 5.0
	// CVVolts is the maximum level of control signals (0-10 V).
	CVVolts Voltage = 10.0
	// GateThresholdVolts is the level at which gates become active.
	GateThresholdVolts Voltage = 2.0
	// RailVolts is the supply rail limit; no physical module swings past it.
	RailVolts Voltage = 12.0
	// VOctF0 is the frequency of 0 V on a 1 V/octave input (C4).
	VOctF0 = 261.6256
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDIToVoltage converts a MIDI note number to a 1 V/octave pitch voltage.
// Note 60 maps to 0 V.
func MIDIToVoltage(note uint8) Voltage {
	return (Voltage(note) - 60) / 12
}

// VoltageToMIDI returns the nearest MIDI note for a 1 V/octave voltage,
// clamped to the MIDI range.
func VoltageToMIDI(v Voltage) uint8 {
	n := math.Round(float64(v)*12 + 60)

	return uint8(math.Max(0, math.Min(127, n)))
}

// Frequency returns the frequency in Hz of a 1 V/octave pitch voltage.
func Frequency(v Voltage) float64 {
	return VOctF0 * math.Exp2(float64(v))
}

// NoteName formats a MIDI note number in scientific pitch notation, e.g. "A4".
func NoteName(note uint8) string {
	octave := int(note)/12 - 1

	return noteNames[note%12] + strconv.Itoa(octave)
}
