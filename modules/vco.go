package modules

import (
	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// VCO channels.
const (
	VCOVOctIn = 0

	VCOSawOut    = 0
	VCOSquareOut = 1
	VCOTriOut    = 2
)

// VCO is a band-limited oscillator tracking 1 V/octave on its pitch input.
// With nothing patched it runs at VOctF0.
type VCO struct{}

// NewVCO returns a VCO.
func NewVCO() *VCO {
	return &VCO{}
}

func (*VCO) Inputs() int             { return 1 }
func (*VCO) Outputs() int            { return 3 }
func (*VCO) Params() module.ParamSet { return nil }

// NewAudioUnit implements module.Module.
func (*VCO) NewAudioUnit() module.AudioUnit {
	return &vcoUnit{}
}

type vcoUnit struct {
	phase     float32
	baseDelta float32
	lastTri   float32
}

func (u *vcoUnit) Reset(sampleRate int) {
	u.baseDelta = float32(eurorack.VOctF0 / float64(sampleRate))
}

func (u *vcoUnit) Tick(in []module.Jack, out []eurorack.Voltage) {
	voct := in[VCOVOctIn].Or(0)
	dt := u.baseDelta * float32(pow2(float64(voct)))
	u.phase = wrapPhase(u.phase + dt)

	out[VCOSawOut] = eurorack.AudioVolts * (2*u.phase - 1 - polyBLEP(u.phase, dt))

	raw := float32(-1)
	if u.phase > 0.5 {
		raw = 1
	}

	square := raw - polyBLEP(u.phase, dt) + polyBLEP(wrapPhase(u.phase+0.5), dt)
	out[VCOSquareOut] = eurorack.AudioVolts * square

	// Leaky integration of the square yields the triangle.
	u.lastTri = 2*dt*square + (1-2*dt)*u.lastTri
	out[VCOTriOut] = eurorack.AudioVolts * u.lastTri
}

// polyBLEP returns the band-limited step correction for phase t advancing
// by dt per sample.
func polyBLEP(t, dt float32) float32 {
	switch {
	case t < dt:
		t /= dt

		return -t*t + 2*t - 1
	case t > 1-dt:
		t = (t - 1) / dt

		return t*t + 2*t + 1
	default:
		return 0
	}
}
