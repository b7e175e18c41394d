package modules

import (
	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// ClockTriggerOut is the Clock's only channel.
const ClockTriggerOut = 0

// Clock emits a pulse train at a tempo in beats per minute.
type Clock struct {
	BPM        *module.Float
	PulseWidth *module.Float
}

// NewClock returns a 120 BPM clock with 50% pulse width.
func NewClock() *Clock {
	return &Clock{
		BPM:        module.NewFloat(120),
		PulseWidth: module.NewFloat(0.5),
	}
}

func (*Clock) Inputs() int  { return 0 }
func (*Clock) Outputs() int { return 1 }

func (c *Clock) Params() module.ParamSet {
	return module.ParamSet{
		{Name: "bpm", Scalar: c.BPM},
		{Name: "pulse_width", Scalar: c.PulseWidth},
	}
}

// NewAudioUnit implements module.Module.
func (c *Clock) NewAudioUnit() module.AudioUnit {
	return &clockUnit{params: c}
}

type clockUnit struct {
	params     *Clock
	sampleRate float32
	ticks      int
}

func (u *clockUnit) Reset(sampleRate int) {
	u.sampleRate = float32(sampleRate)
}

// Period returns the number of samples per beat for bpm at sampleRate. The
// result is at least 3 so a pulse always has a high and a low phase, and 0
// for an invalid tempo or a unit that has not been reset yet.
func Period(bpm float32, sampleRate int) int {
	if !(bpm > 0) || !eurorack.IsFinite(bpm) || sampleRate <= 0 {
		return 0
	}

	return max(int(60/bpm*float32(sampleRate)), 3)
}

func (u *clockUnit) Tick(_ []module.Jack, out []eurorack.Voltage) {
	period := Period(u.params.BPM.Value(), int(u.sampleRate))
	if period == 0 {
		out[ClockTriggerOut] = 0

		return
	}

	width := int(eurorack.Clamp(u.params.PulseWidth.Value(), 0, 1) * float32(period))
	width = min(max(width, 1), period-2)

	u.ticks = (u.ticks + 1) % period

	out[ClockTriggerOut] = 0
	if u.ticks < width {
		out[ClockTriggerOut] = eurorack.CVVolts
	}
}
