package modules

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/internal/testutil"
	"github.com/cwbudde/algo-rack/module"
)

func TestVCAGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		gain  float32
		atten float32
		in    []module.Jack
		want  eurorack.Voltage
	}{
		{name: "unity without cv", gain: 1, atten: 0, in: []module.Jack{{Value: 2, Patched: true}, {}}, want: 2},
		{name: "closed attenuator mutes patched cv", gain: 1, atten: 0, in: testutil.Jacks(2, 10), want: 0},
		{name: "half cv", gain: 1, atten: 1, in: testutil.Jacks(2, 5), want: 1},
		{name: "gain scales", gain: 2, atten: 1, in: testutil.Jacks(1, 10), want: 2},
		{name: "unpatched audio", gain: 1, atten: 1, in: []module.Jack{{}, {}}, want: 0},
	}

	for _, tc := range tests {
		v := NewVCA()
		v.Gain.SetValue(tc.gain)
		v.GainAtten.SetValue(tc.atten)

		out := make([]eurorack.Voltage, 1)
		v.NewAudioUnit().Tick(tc.in, out)

		if math.Abs(float64(out[VCAAudioOut]-tc.want)) > 1e-6 {
			t.Fatalf("%s: out=%v want %v", tc.name, out[0], tc.want)
		}
	}
}

func TestVCAPassesAudioAtFullCV(t *testing.T) {
	t.Parallel()

	v := NewVCA()
	v.Gain.SetValue(1)
	v.GainAtten.SetValue(1)

	audio := testutil.PulseTrain(7, 3, 64)
	for i := range audio {
		audio[i] -= eurorack.Voltage(i%5) / 2
	}

	rec := testutil.Drive(v.NewAudioUnit(), 1000, 1, func(i int) []module.Jack {
		return testutil.Jacks(audio[i], eurorack.CVVolts)
	}, len(audio))

	testutil.RequireSliceNearlyEqual(t, rec[VCAAudioOut], audio, 1e-6)
}

func TestLFOSineMatchesReference(t *testing.T) {
	t.Parallel()

	const n = 1000

	rec := testutil.Drive(NewLFO().NewAudioUnit(), n, 4, func(int) []module.Jack {
		return []module.Jack{{}}
	}, n)

	// The phase advances before the first sample is written.
	want := make([]eurorack.Voltage, n)
	for i := range want {
		s := math.Sin(2 * math.Pi * float64(i+1) / n)
		want[i] = eurorack.Voltage(float64(eurorack.CVVolts) * (s + 1) / 2)
	}

	diff, err := testutil.MaxAbsDiff(rec[LFOSineOut], want)
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}

	if diff > 0.01 {
		t.Fatalf("sine deviates by %v V", diff)
	}
}

func TestLFOWaveforms(t *testing.T) {
	t.Parallel()

	rec := testutil.Drive(NewLFO().NewAudioUnit(), 1000, 4, func(int) []module.Jack {
		return []module.Jack{{}}
	}, 2500)

	for ch := range rec {
		testutil.RequireWithin(t, rec[ch], 0, eurorack.CVVolts)
	}

	// 1 Hz at 1 kHz: the saw wraps every 1000 samples.
	edges := 0
	for i := 1; i < len(rec[LFOSawOut]); i++ {
		if rec[LFOSawOut][i] < rec[LFOSawOut][i-1] {
			edges++
		}
	}

	if edges != 2 {
		t.Fatalf("saw wraps=%d want 2", edges)
	}

	if got := rec[LFOSquareOut][100]; got != eurorack.CVVolts {
		t.Fatalf("square in first half=%v want %v", got, eurorack.CVVolts)
	}

	if got := rec[LFOSquareOut][700]; got != 0 {
		t.Fatalf("square in second half=%v want 0", got)
	}
}

func TestLFOFrequencyCV(t *testing.T) {
	t.Parallel()

	// 10 V adds 20 Hz, so the saw wraps 21 times per second.
	rec := testutil.Drive(NewLFO().NewAudioUnit(), 1000, 4, func(int) []module.Jack {
		return testutil.Jacks(eurorack.CVVolts)
	}, 1000)

	wraps := 0
	for i := 1; i < len(rec[LFOSawOut]); i++ {
		if rec[LFOSawOut][i] < rec[LFOSawOut][i-1] {
			wraps++
		}
	}

	if wraps < 20 || wraps > 21 {
		t.Fatalf("saw wraps=%d want 20..21", wraps)
	}
}
