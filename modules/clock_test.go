package modules

import (
	"testing"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/internal/testutil"
)

func risingEdges(signal []eurorack.Voltage) []int {
	var edges []int

	prev := eurorack.Voltage(0)
	for i, v := range signal {
		if v >= eurorack.GateThresholdVolts && prev < eurorack.GateThresholdVolts {
			edges = append(edges, i)
		}

		prev = v
	}

	return edges
}

func TestClockPeriod(t *testing.T) {
	t.Parallel()

	rec := testutil.Drive(NewClock().NewAudioUnit(), 1000, 1, nil, 2000)
	got := risingEdges(rec[ClockTriggerOut])
	want := []int{0, 499, 999, 1499}

	if len(got) != len(want) {
		t.Fatalf("edges=%v want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("edges=%v want %v", got, want)
		}
	}

	high := 0
	for _, v := range rec[ClockTriggerOut][:499] {
		if v == eurorack.CVVolts {
			high++
		}
	}

	// Ticks 1..249 of the first period are high.
	if high != 249 {
		t.Fatalf("high samples=%d want 249", high)
	}
}

func TestClockPulseWidthClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		width float32
		high  int
	}{
		{name: "zero width still pulses", width: 0, high: 1},
		{name: "full width keeps a low phase", width: 1, high: 98},
	}

	for _, tc := range tests {
		c := NewClock()
		c.BPM.SetValue(600)
		c.PulseWidth.SetValue(tc.width)

		// 600 BPM at 1 kHz gives a 100 sample period.
		rec := testutil.Drive(c.NewAudioUnit(), 1000, 1, nil, 100)

		high := 0
		for _, v := range rec[ClockTriggerOut] {
			if v > 0 {
				high++
			}
		}

		if high != tc.high {
			t.Fatalf("%s: high samples=%d want %d", tc.name, high, tc.high)
		}
	}
}

func TestClockInvalidTempoIsSilent(t *testing.T) {
	t.Parallel()

	c := NewClock()
	c.BPM.SetValue(0)

	rec := testutil.Drive(c.NewAudioUnit(), 1000, 1, nil, 10)
	for i, v := range rec[0] {
		if v != 0 {
			t.Fatalf("sample %d=%v want 0", i, v)
		}
	}
}

func TestPeriod(t *testing.T) {
	t.Parallel()

	if got := Period(120, 48000); got != 24000 {
		t.Fatalf("Period(120, 48000)=%d want 24000", got)
	}

	if got := Period(1e9, 48000); got != 3 {
		t.Fatalf("Period(huge)=%d want 3", got)
	}

	if got := Period(120, 0); got != 0 {
		t.Fatalf("Period(120, 0)=%d want 0", got)
	}
}

func TestClockWithoutResetIsSilent(t *testing.T) {
	t.Parallel()

	u := NewClock().NewAudioUnit()
	out := make([]eurorack.Voltage, 1)

	for i := range 10 {
		u.Tick(nil, out)

		if out[ClockTriggerOut] != 0 {
			t.Fatalf("tick %d=%v want 0", i, out[ClockTriggerOut])
		}
	}
}
