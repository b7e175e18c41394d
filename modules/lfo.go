package modules

import (
	"math"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// LFO channels.
const (
	LFOFreqIn = 0

	LFOSineOut   = 0
	LFOSawOut    = 1
	LFOSquareOut = 2
	LFOTriOut    = 3
)

// LFO is a low-frequency oscillator with unipolar 0..CVVolts outputs. Its
// frequency CV adds up to 20 Hz at CVVolts.
type LFO struct {
	Frequency *module.Float
}

// NewLFO returns a 1 Hz LFO.
func NewLFO() *LFO {
	return &LFO{Frequency: module.NewFloat(1)}
}

func (*LFO) Inputs() int  { return 1 }
func (*LFO) Outputs() int { return 4 }

func (l *LFO) Params() module.ParamSet {
	return module.ParamSet{{Name: "frequency", Scalar: l.Frequency}}
}

// NewAudioUnit implements module.Module.
func (l *LFO) NewAudioUnit() module.AudioUnit {
	return &lfoUnit{params: l}
}

type lfoUnit struct {
	params     *LFO
	sampleRate float32
	phase      float32
}

func (u *lfoUnit) Reset(sampleRate int) {
	u.sampleRate = float32(sampleRate)
}

func (u *lfoUnit) Tick(in []module.Jack, out []eurorack.Voltage) {
	if u.sampleRate == 0 {
		return
	}

	freq := u.params.Frequency.Value() + 20*in[LFOFreqIn].Or(0)/eurorack.CVVolts
	u.phase = wrapPhase(u.phase + freq/u.sampleRate)
	p := u.phase

	out[LFOSineOut] = eurorack.CVVolts * (float32(math.Sin(2*math.Pi*float64(p))) + 1) / 2
	out[LFOSawOut] = eurorack.CVVolts * p

	out[LFOSquareOut] = 0
	if p < 0.5 {
		out[LFOSquareOut] = eurorack.CVVolts
	}

	if p < 0.5 {
		out[LFOTriOut] = eurorack.CVVolts * 2 * p
	} else {
		out[LFOTriOut] = eurorack.CVVolts * (1 - 2*(p-0.5))
	}
}
