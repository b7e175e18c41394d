package modules

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// VCF channels.
const (
	VCFCutoffIn    = 0
	VCFResonanceIn = 1
	VCFAudioIn     = 2

	VCFLowpassOut  = 0
	VCFBandpassOut = 1
	VCFHighpassOut = 2
)

// StabilityPolicy decides what the VCF does when its state stops being
// finite, e.g. after a resonance of zero or an extreme input.
type StabilityPolicy int

const (
	// ClampPolicy resets non-finite filter state to zero and limits every
	// output to the supply rails.
	ClampPolicy StabilityPolicy = iota
	// PanicPolicy panics on non-finite output. The audio host recovers the
	// panic and reports it; intended for development.
	PanicPolicy
)

func (p StabilityPolicy) String() string {
	switch p {
	case ClampPolicy:
		return "clamp"
	case PanicPolicy:
		return "panic"
	default:
		return fmt.Sprintf("StabilityPolicy(%d)", int(p))
	}
}

var errInvalidVCFOption = errors.New("modules: invalid vcf option")

// VCFOption configures a VCF.
type VCFOption func(*VCF) error

// WithCutoff sets the base cutoff frequency in Hz and opens the cutoff CV
// attenuverter fully.
func WithCutoff(hz float32) VCFOption {
	return func(f *VCF) error {
		if hz < 0 || !eurorack.IsFinite(hz) {
			return fmt.Errorf("%w: cutoff %v", errInvalidVCFOption, hz)
		}

		f.Cutoff.SetValue(hz)
		f.CutoffAtten.SetValue(1)

		return nil
	}
}

// WithResonance sets the base resonance and opens the resonance CV
// attenuverter fully.
func WithResonance(q float32) VCFOption {
	return func(f *VCF) error {
		if q <= 0 || !eurorack.IsFinite(q) {
			return fmt.Errorf("%w: resonance %v", errInvalidVCFOption, q)
		}

		f.Resonance.SetValue(q)
		f.ResonanceAtten.SetValue(1)

		return nil
	}
}

// WithStabilityPolicy selects the numerical stability policy.
func WithStabilityPolicy(p StabilityPolicy) VCFOption {
	return func(f *VCF) error {
		if p != ClampPolicy && p != PanicPolicy {
			return fmt.Errorf("%w: policy %v", errInvalidVCFOption, p)
		}

		f.policy = p

		return nil
	}
}

// VCF is a Chamberlin state-variable filter with simultaneous lowpass,
// bandpass and highpass outputs. The cutoff is limited to a sixth of the
// sample rate, above which the structure becomes unstable.
type VCF struct {
	Cutoff         *module.Float
	CutoffAtten    *module.Float
	Resonance      *module.Float
	ResonanceAtten *module.Float

	policy StabilityPolicy
}

// NewVCF returns a VCF with a 20 kHz cutoff, unit resonance and closed
// attenuverters, modified by opts.
func NewVCF(opts ...VCFOption) (*VCF, error) {
	f := &VCF{
		Cutoff:         module.NewFloat(20000),
		CutoffAtten:    module.NewFloat(0),
		Resonance:      module.NewFloat(1),
		ResonanceAtten: module.NewFloat(0),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Policy returns the stability policy of units built by f.
func (f *VCF) Policy() StabilityPolicy { return f.policy }

func (*VCF) Inputs() int  { return 3 }
func (*VCF) Outputs() int { return 3 }

func (f *VCF) Params() module.ParamSet {
	return module.ParamSet{
		{Name: "cutoff", Scalar: f.Cutoff},
		{Name: "cutoff_atten", Scalar: f.CutoffAtten},
		{Name: "resonance", Scalar: f.Resonance},
		{Name: "resonance_atten", Scalar: f.ResonanceAtten},
	}
}

// NewAudioUnit implements module.Module.
func (f *VCF) NewAudioUnit() module.AudioUnit {
	return &vcfUnit{params: f, policy: f.policy}
}

type vcfUnit struct {
	params     *VCF
	policy     StabilityPolicy
	sampleRate float32
	last       [3]eurorack.Voltage
}

func (u *vcfUnit) Reset(sampleRate int) {
	u.sampleRate = float32(sampleRate)
}

func (u *vcfUnit) Tick(in []module.Jack, out []eurorack.Voltage) {
	limit := u.sampleRate / 6
	cutoffIn := in[VCFCutoffIn].Or(0) / eurorack.CVVolts * limit
	cutoff := eurorack.Clamp(u.params.Cutoff.Value()+u.params.CutoffAtten.Value()*cutoffIn, 0, limit)
	resonance := u.params.Resonance.Value() + 0.5*in[VCFResonanceIn].Or(0)*u.params.ResonanceAtten.Value()

	// DAFX 2.2 state variable multifilter.
	f1 := float32(2 * math.Pi * float64(cutoff) / float64(u.sampleRate))
	q1 := 1 / resonance

	hp := in[VCFAudioIn].Or(0) - u.last[VCFLowpassOut] - q1*u.last[VCFBandpassOut]
	bp := f1*hp + u.last[VCFBandpassOut]
	lp := f1*bp + u.last[VCFLowpassOut]

	finite := eurorack.IsFinite(hp) && eurorack.IsFinite(bp) && eurorack.IsFinite(lp)

	switch {
	case u.policy == PanicPolicy && !finite:
		panic(fmt.Sprintf("vcf: non-finite output (cutoff %v, resonance %v)", cutoff, resonance))
	case u.policy == ClampPolicy && !finite:
		hp, bp, lp = 0, 0, 0
	case u.policy == ClampPolicy:
		hp = eurorack.Clamp(hp, -eurorack.RailVolts, eurorack.RailVolts)
		bp = eurorack.Clamp(bp, -eurorack.RailVolts, eurorack.RailVolts)
		lp = eurorack.Clamp(lp, -eurorack.RailVolts, eurorack.RailVolts)
	}

	hp = eurorack.FlushDenormal(hp)
	bp = eurorack.FlushDenormal(bp)
	lp = eurorack.FlushDenormal(lp)

	out[VCFHighpassOut], out[VCFBandpassOut], out[VCFLowpassOut] = hp, bp, lp
	u.last[VCFHighpassOut], u.last[VCFBandpassOut], u.last[VCFLowpassOut] = hp, bp, lp
}
