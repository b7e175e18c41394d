package modules

import (
	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// ADSR channels.
const (
	ADSRGateIn = 0
	ADSRCVOut  = 0
)

// EnvelopeState is the stage an ADSR unit is in.
type EnvelopeState uint8

const (
	Silent EnvelopeState = iota
	Attack
	Decay
	Sustain
	Release
)

func (s EnvelopeState) String() string {
	switch s {
	case Silent:
		return "silent"
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// ADSR is a linear attack-decay-sustain-release envelope generator. A rising
// gate restarts the attack from the current level; a gate below threshold
// releases from wherever the envelope is.
type ADSR struct {
	Attack  *eurorack.Duration
	Decay   *eurorack.Duration
	Sustain *module.Float
	Release *eurorack.Duration
}

// NewADSR returns an envelope with 5 ms attack, 100 ms decay, 0.8 sustain
// and 500 ms release.
func NewADSR() *ADSR {
	return &ADSR{
		Attack:  eurorack.NewDuration(0.005),
		Decay:   eurorack.NewDuration(0.1),
		Sustain: module.NewFloat(0.8),
		Release: eurorack.NewDuration(0.5),
	}
}

func (*ADSR) Inputs() int  { return 1 }
func (*ADSR) Outputs() int { return 1 }

func (a *ADSR) Params() module.ParamSet {
	return module.ParamSet{
		{Name: "attack", Scalar: a.Attack},
		{Name: "decay", Scalar: a.Decay},
		{Name: "sustain", Scalar: a.Sustain},
		{Name: "release", Scalar: a.Release},
	}
}

// NewAudioUnit implements module.Module.
func (a *ADSR) NewAudioUnit() module.AudioUnit {
	return &adsrUnit{
		params:    a,
		trigger:   eurorack.DefaultSchmittTrigger(),
		remaining: -1,
	}
}

type adsrUnit struct {
	params  *ADSR
	trigger eurorack.SchmittTrigger
	state   EnvelopeState
	// remaining counts samples left in a timed stage, -1 otherwise.
	remaining int
	level     float32
	step      float32
}

// stageSamples never returns 0 so a stage shorter than one sample still
// takes a single step.
func stageSamples(d *eurorack.Duration) int {
	return max(d.Samples(), 1)
}

func (u *adsrUnit) attack() {
	n := stageSamples(u.params.Attack)
	u.state = Attack
	u.remaining = n
	u.step = (1 - u.level) / float32(n)
}

func (u *adsrUnit) decay() {
	n := stageSamples(u.params.Decay)
	u.state = Decay
	u.remaining = n
	u.step = (u.params.Sustain.Value() - u.level) / float32(n)
}

func (u *adsrUnit) sustain() {
	u.state = Sustain
	u.remaining = -1
	u.level = u.params.Sustain.Value()
	u.step = 0
}

func (u *adsrUnit) release() {
	n := stageSamples(u.params.Release)
	u.state = Release
	u.remaining = n
	u.step = -u.level / float32(n)
}

func (u *adsrUnit) silence() {
	u.state = Silent
	u.remaining = -1
	u.level = 0
	u.step = 0
}

func (u *adsrUnit) Reset(sampleRate int) {
	u.params.Attack.Reset(sampleRate)
	u.params.Decay.Reset(sampleRate)
	u.params.Release.Reset(sampleRate)
}

func (u *adsrUnit) Tick(in []module.Jack, out []eurorack.Voltage) {
	gate := in[ADSRGateIn].Or(0)
	if u.trigger.Detect(gate) {
		u.attack()
	} else if gate < eurorack.GateThresholdVolts {
		switch u.state {
		case Attack, Decay, Sustain:
			u.release()
		}
	}

	if u.remaining == 0 {
		switch u.state {
		case Attack:
			u.decay()
		case Decay:
			u.sustain()
		case Release:
			u.silence()
		}
	}

	// The sample that enters a stage is its first step.
	if u.remaining > 0 {
		u.remaining--
	}

	u.level += u.step
	out[ADSRCVOut] = eurorack.CVVolts * u.level
}
