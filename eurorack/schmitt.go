package eurorack

const (
	// DefaultTriggerVolts is the rising threshold of the default trigger.
	DefaultTriggerVolts Voltage = GateThresholdVolts
	// DefaultResetVolts is the level a signal must fall below to re-arm.
	DefaultResetVolts Voltage = 0.1
)

// SchmittTrigger detects rising edges with hysteresis. A crossing above the
// trigger threshold is reported once; the detector re-arms only after the
// signal falls below the lower reset threshold.
type SchmittTrigger struct {
	triggerThreshold Voltage
	resetThreshold   Voltage
	active           bool
}

// NewSchmittTrigger returns a detector with the given thresholds.
func NewSchmittTrigger(trigger, reset Voltage) SchmittTrigger {
	return SchmittTrigger{triggerThreshold: trigger, resetThreshold: reset}
}

// DefaultSchmittTrigger returns a detector using the gate conventions.
func DefaultSchmittTrigger() SchmittTrigger {
	return NewSchmittTrigger(DefaultTriggerVolts, DefaultResetVolts)
}

// Detect consumes one sample and reports whether a new edge started.
func (s *SchmittTrigger) Detect(v Voltage) bool {
	if s.active {
		s.active = v >= s.resetThreshold

		return false
	}

	s.active = v >= s.triggerThreshold

	return s.active
}

// Active reports whether the detector is currently latched high.
func (s *SchmittTrigger) Active() bool {
	return s.active
}

// Reset re-arms the detector.
func (s *SchmittTrigger) Reset() {
	s.active = false
}
