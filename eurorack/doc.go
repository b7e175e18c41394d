// Package eurorack defines the voltage conventions shared by every module in
// the rack, together with small sample-rate aware helpers.
//
// Conventions:
//   - Audio signals peak at ±AudioVolts (5 V).
//   - Control voltages span 0..CVVolts (10 V).
//   - A gate or trigger is high at or above GateThresholdVolts (2 V).
//   - Pitch follows 1 V/octave with 0 V at VOctF0 (middle C).
//
// Helpers:
//   - Duration: a time span kept in seconds, converted to samples on demand.
//   - PulseGenerator: fixed-length CV pulses, e.g. 1 ms triggers.
//   - SchmittTrigger: hysteretic rising-edge detection for gates and clocks.
package eurorack
