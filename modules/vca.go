package modules

import (
	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// VCA channels.
const (
	VCAAudioIn = 0
	VCACVIn    = 1

	VCAAudioOut = 0
)

// VCA scales its audio input by a gain. When the CV input is patched the
// gain is further scaled by the attenuated CV, normalized to CVVolts.
type VCA struct {
	Gain      *module.Float
	GainAtten *module.Float
}

// NewVCA returns a unity-gain VCA with a closed CV attenuverter.
func NewVCA() *VCA {
	return &VCA{
		Gain:      module.NewFloat(1),
		GainAtten: module.NewFloat(0),
	}
}

func (*VCA) Inputs() int  { return 2 }
func (*VCA) Outputs() int { return 1 }

func (v *VCA) Params() module.ParamSet {
	return module.ParamSet{
		{Name: "gain", Scalar: v.Gain},
		{Name: "gain_atten", Scalar: v.GainAtten},
	}
}

// NewAudioUnit implements module.Module.
func (v *VCA) NewAudioUnit() module.AudioUnit {
	return vcaUnit{params: v}
}

type vcaUnit struct {
	params *VCA
}

func (vcaUnit) Reset(int) {}

func (u vcaUnit) Tick(in []module.Jack, out []eurorack.Voltage) {
	gain := u.params.Gain.Value()
	if cv := in[VCACVIn]; cv.Patched {
		gain *= u.params.GainAtten.Value() * cv.Value / eurorack.CVVolts
	}

	out[VCAAudioOut] = gain * in[VCAAudioIn].Or(0)
}
