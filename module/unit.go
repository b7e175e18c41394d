package module

import "github.com/cwbudde/algo-rack/eurorack"

// AudioUnit is the per-sample processor owned by the rack. Tick must not
// block, allocate or perform I/O.
type AudioUnit interface {
	// Reset is called before the first Tick and whenever the sample rate
	// changes.
	Reset(sampleRate int)
	// Tick consumes one sample from in and writes one sample to every
	// element of out. out holds the previous tick's values on entry.
	Tick(in []Jack, out []eurorack.Voltage)
}

// Module is the control-side description of a device.
type Module interface {
	Inputs() int
	Outputs() int
	// NewAudioUnit builds a unit sharing this module's parameters.
	NewAudioUnit() AudioUnit
	Params() ParamSet
}
