package patch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
	"github.com/cwbudde/algo-rack/modules"
	"github.com/cwbudde/algo-rack/rack"
)

func buildVoice(t *testing.T, p *Patch) {
	t.Helper()

	ids := []string{"clock", "sequencer", "vco", "adsr", "vcf", "vca", "lfo"}
	h := make(map[string]module.Handle, len(ids))

	for _, id := range ids {
		handle, err := p.AddModule(id)
		if err != nil {
			t.Fatalf("AddModule(%q): %v", id, err)
		}

		h[id] = handle
	}

	cables := []Cable{
		{Src: h["clock"].Output(modules.ClockTriggerOut), Dst: h["sequencer"].Input(modules.SequencerTriggerIn)},
		{Src: h["clock"].Output(modules.ClockTriggerOut), Dst: h["adsr"].Input(modules.ADSRGateIn)},
		{Src: h["sequencer"].Output(modules.SequencerVOctOut), Dst: h["vco"].Input(modules.VCOVOctIn)},
		{Src: h["vco"].Output(modules.VCOSawOut), Dst: h["vcf"].Input(modules.VCFAudioIn)},
		{Src: h["lfo"].Output(modules.LFOSineOut), Dst: h["vcf"].Input(modules.VCFCutoffIn)},
		{Src: h["vcf"].Output(modules.VCFLowpassOut), Dst: h["vca"].Input(modules.VCAAudioIn)},
		{Src: h["adsr"].Output(modules.ADSRCVOut), Dst: h["vca"].Input(modules.VCACVIn)},
		{Src: h["vca"].Output(modules.VCAAudioOut), Dst: module.AudioOutputHandle.Input(0)},
	}

	for _, c := range cables {
		if err := p.Connect(c.Src, c.Dst); err != nil {
			t.Fatalf("Connect(%v, %v): %v", c.Src, c.Dst, err)
		}
	}

	clock, _ := p.Module(h["clock"])
	clock.(*modules.Clock).BPM.SetValue(480)

	seq, _ := p.Module(h["sequencer"])
	for i, n := range seq.(*modules.Sequencer).Notes {
		n.Set(uint8(48 + 3*i))
	}

	vcf, _ := p.Module(h["vcf"])
	vcf.(*modules.VCF).CutoffAtten.SetValue(0.37)
	vcf.(*modules.VCF).Cutoff.SetValue(1234.5678)

	vca, _ := p.Module(h["vca"])
	vca.(*modules.VCA).GainAtten.SetValue(1)

	lfo, _ := p.Module(h["lfo"])
	lfo.(*modules.LFO).Frequency.SetValue(3.3)
}

func render(r *rack.Rack, n int) []eurorack.Voltage {
	out := make([]eurorack.Voltage, n)
	for i := range out {
		out[i] = r.Tick()
	}

	return out
}

func TestRoundTripBitIdentical(t *testing.T) {
	t.Parallel()

	reg := modules.DefaultRegistry()

	srcRack := rack.New()
	src := New(reg, srcRack)
	buildVoice(t, src)

	var buf bytes.Buffer
	if err := Encode(&buf, src.State()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	state, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	dstRack := rack.New()
	dst := New(reg, dstRack)

	if err := dst.Load(state); err != nil {
		t.Fatalf("Load: %v", err)
	}

	srcRack.Reset(48000)
	dstRack.Reset(48000)

	a := render(srcRack, 48000)
	b := render(dstRack, 48000)

	nonZero := false
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d: %v != %v", i, a[i], b[i])
		}

		nonZero = nonZero || a[i] != 0
	}

	if !nonZero {
		t.Fatal("patch rendered silence")
	}
}

func TestStateShape(t *testing.T) {
	t.Parallel()

	p := New(modules.DefaultRegistry(), rack.New())

	vco, err := p.AddModule("vco")
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}

	if err := p.Connect(vco.Output(modules.VCOTriOut), module.AudioOutputHandle.Input(0)); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	s := p.State()
	if len(s.Modules) != 1 || s.Modules[0].ID != "vco" {
		t.Fatalf("modules=%+v", s.Modules)
	}

	want := Connection{SrcIndex: 0, SrcChannel: modules.VCOTriOut, DstIndex: SinkIndex, DstChannel: 0}
	if len(s.Connections) != 1 || s.Connections[0] != want {
		t.Fatalf("connections=%+v want %+v", s.Connections, want)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if !strings.Contains(buf.String(), `"dst_index": -1`) {
		t.Fatalf("sink index not encoded as -1:\n%s", buf.String())
	}
}

func TestConnectReplacesInputCable(t *testing.T) {
	t.Parallel()

	r := rack.New()
	p := New(modules.DefaultRegistry(), r)

	lfo, _ := p.AddModule("lfo")
	clock, _ := p.AddModule("clock")
	seq, _ := p.AddModule("sequencer")

	if err := p.Connect(lfo.Output(modules.LFOSquareOut), seq.Input(0)); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := p.Connect(clock.Output(0), seq.Input(0)); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	cables := p.Cables()
	if len(cables) != 1 || cables[0].Src != clock.Output(0) {
		t.Fatalf("patch cables=%v", cables)
	}

	if rc := r.Cables(); len(rc) != 1 || rc[0].Src != clock.Output(0) {
		t.Fatalf("rack cables=%v", rc)
	}
}

// failingTarget forwards to a rack until failConnect is set.
type failingTarget struct {
	*rack.Rack

	failConnect bool
}

var errTargetFull = errors.New("target full")

func (f *failingTarget) Connect(src module.Output, dst module.Input) error {
	if f.failConnect {
		return errTargetFull
	}

	return f.Rack.Connect(src, dst)
}

func TestConnectFailureKeepsExistingCable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  func(seq module.Handle) module.Input
	}{
		{name: "module input", dst: func(seq module.Handle) module.Input { return seq.Input(0) }},
		{name: "sink", dst: func(module.Handle) module.Input { return module.AudioOutputHandle.Input(0) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			target := &failingTarget{Rack: rack.New()}
			p := New(modules.DefaultRegistry(), target)

			lfo, _ := p.AddModule("lfo")
			clock, _ := p.AddModule("clock")
			seq, _ := p.AddModule("sequencer")
			dst := tc.dst(seq)

			if err := p.Connect(lfo.Output(modules.LFOSquareOut), dst); err != nil {
				t.Fatalf("Connect: %v", err)
			}

			rackCables := target.Cables()
			rackOutput, hasOutput := target.OutputSource()

			target.failConnect = true

			err := p.Connect(clock.Output(0), dst)
			if !errors.Is(err, errTargetFull) {
				t.Fatalf("Connect error=%v want %v", err, errTargetFull)
			}

			want := []Cable{{Src: lfo.Output(modules.LFOSquareOut), Dst: dst}}
			if got := p.Cables(); len(got) != 1 || got[0] != want[0] {
				t.Fatalf("patch cables=%v want %v", got, want)
			}

			if got := target.Cables(); len(got) != len(rackCables) {
				t.Fatalf("rack cables=%v want %v", got, rackCables)
			}

			if got, ok := target.OutputSource(); got != rackOutput || ok != hasOutput {
				t.Fatalf("rack output=%v,%v want %v,%v", got, ok, rackOutput, hasOutput)
			}
		})
	}
}

func TestConnectReplacesSinkCable(t *testing.T) {
	t.Parallel()

	r := rack.New()
	p := New(modules.DefaultRegistry(), r)

	lfo, _ := p.AddModule("lfo")
	clock, _ := p.AddModule("clock")
	sink := module.AudioOutputHandle.Input(0)

	for _, src := range []module.Output{lfo.Output(0), clock.Output(0)} {
		if err := p.Connect(src, sink); err != nil {
			t.Fatalf("Connect(%v): %v", src, err)
		}
	}

	if cables := p.Cables(); len(cables) != 1 || cables[0].Src != clock.Output(0) {
		t.Fatalf("patch cables=%v", cables)
	}

	if src, ok := r.OutputSource(); !ok || src != clock.Output(0) {
		t.Fatalf("rack output=%v,%v want %v", src, ok, clock.Output(0))
	}
}

func TestClearOutputAndInput(t *testing.T) {
	t.Parallel()

	r := rack.New()
	p := New(modules.DefaultRegistry(), r)

	clock, _ := p.AddModule("clock")
	seq, _ := p.AddModule("sequencer")
	adsr, _ := p.AddModule("adsr")

	for _, dst := range []module.Input{seq.Input(0), adsr.Input(0)} {
		if err := p.Connect(clock.Output(0), dst); err != nil {
			t.Fatalf("Connect: %v", err)
		}
	}

	if err := p.ClearInput(seq.Input(0)); err != nil {
		t.Fatalf("ClearInput: %v", err)
	}

	if n := len(r.Cables()); n != 1 {
		t.Fatalf("rack cables=%d want 1", n)
	}

	if err := p.ClearInput(seq.Input(0)); err != nil {
		t.Fatalf("ClearInput on empty jack: %v", err)
	}

	if err := p.Connect(clock.Output(0), seq.Input(0)); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := p.ClearOutput(clock.Output(0)); err != nil {
		t.Fatalf("ClearOutput: %v", err)
	}

	if n := len(p.Cables()); n != 0 {
		t.Fatalf("patch cables=%d want 0", n)
	}

	if n := len(r.Cables()); n != 0 {
		t.Fatalf("rack cables=%d want 0", n)
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	p := New(modules.DefaultRegistry(), rack.New())
	vco, _ := p.AddModule("vco")

	tests := []struct {
		name string
		src  module.Output
		dst  module.Input
		want error
	}{
		{name: "unknown source", src: module.Handle(42).Output(0), dst: vco.Input(0), want: ErrUnknownModule},
		{name: "unknown destination", src: vco.Output(0), dst: module.Handle(42).Input(0), want: ErrUnknownModule},
		{name: "bad output channel", src: vco.Output(3), dst: vco.Input(0), want: ErrInvalidChannel},
		{name: "bad input channel", src: vco.Output(0), dst: vco.Input(1), want: ErrInvalidChannel},
		{name: "bad sink channel", src: vco.Output(0), dst: module.AudioOutputHandle.Input(2), want: ErrInvalidChannel},
	}

	for _, tc := range tests {
		if err := p.Connect(tc.src, tc.dst); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v want %v", tc.name, err, tc.want)
		}
	}

	if err := p.Disconnect(vco.Output(0), vco.Input(0)); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Disconnect err=%v want ErrNotConnected", err)
	}

	if _, err := p.AddModule("theremin"); !errors.Is(err, module.ErrNotRegistered) {
		t.Fatalf("AddModule err=%v want ErrNotRegistered", err)
	}
}

func TestLoadInvalidState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		want  error
	}{
		{
			name:  "unknown module",
			state: State{Modules: []ModuleState{{ID: "theremin"}}},
			want:  module.ErrNotRegistered,
		},
		{
			name: "source index out of range",
			state: State{
				Modules:     []ModuleState{{ID: "vco"}},
				Connections: []Connection{{SrcIndex: 3, DstIndex: SinkIndex}},
			},
			want: ErrInvalidState,
		},
		{
			name: "destination index out of range",
			state: State{
				Modules:     []ModuleState{{ID: "vco"}},
				Connections: []Connection{{SrcIndex: 0, DstIndex: 9}},
			},
			want: ErrInvalidState,
		},
		{
			name: "parameter shape",
			state: State{Modules: []ModuleState{{
				ID:     "vca",
				Params: map[string]module.Serialized{"gain": module.List(module.Number(1))},
			}}},
			want: module.ErrParamShape,
		},
	}

	for _, tc := range tests {
		p := New(modules.DefaultRegistry(), rack.New())
		if err := p.Load(tc.state); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v want %v", tc.name, err, tc.want)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/voice.json"

	p := New(modules.DefaultRegistry(), rack.New())
	buildVoice(t, p)

	if err := WriteFile(path, p.State()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if len(s.Modules) != 7 || len(s.Connections) != 8 {
		t.Fatalf("state has %d modules, %d connections", len(s.Modules), len(s.Connections))
	}

	if _, err := ReadFile(path + ".missing"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
