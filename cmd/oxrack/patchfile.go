package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-rack/module"
	"github.com/cwbudde/algo-rack/modules"
	"github.com/cwbudde/algo-rack/patch"
	"github.com/cwbudde/algo-rack/patchscript"
	"github.com/cwbudde/algo-rack/rack"
)

// loadState reads a JSON state or runs a Lua script. An empty path yields
// the demo patch.
func loadState(path string) (patch.State, error) {
	switch {
	case path == "":
		return demoState()
	case strings.EqualFold(filepath.Ext(path), ".lua"):
		// Scripts only need parameter layouts, so no MIDI port is attached.
		return patchscript.RunFile(path, modules.DefaultRegistry())
	default:
		return patch.ReadFile(path)
	}
}

// demoState is a clocked arpeggio through a filtered, enveloped saw.
func demoState() (patch.State, error) {
	p := patch.New(modules.DefaultRegistry(), rack.New())

	h := make(map[string]module.Handle)
	for _, id := range []string{"clock", "sequencer", "vco", "lfo", "vcf", "adsr", "vca"} {
		handle, err := p.AddModule(id)
		if err != nil {
			return patch.State{}, err
		}

		h[id] = handle
	}

	cables := []patch.Cable{
		{Src: h["clock"].Output(modules.ClockTriggerOut), Dst: h["sequencer"].Input(modules.SequencerTriggerIn)},
		{Src: h["clock"].Output(modules.ClockTriggerOut), Dst: h["adsr"].Input(modules.ADSRGateIn)},
		{Src: h["sequencer"].Output(modules.SequencerVOctOut), Dst: h["vco"].Input(modules.VCOVOctIn)},
		{Src: h["vco"].Output(modules.VCOSawOut), Dst: h["vcf"].Input(modules.VCFAudioIn)},
		{Src: h["lfo"].Output(modules.LFOTriOut), Dst: h["vcf"].Input(modules.VCFCutoffIn)},
		{Src: h["vcf"].Output(modules.VCFLowpassOut), Dst: h["vca"].Input(modules.VCAAudioIn)},
		{Src: h["adsr"].Output(modules.ADSRCVOut), Dst: h["vca"].Input(modules.VCACVIn)},
		{Src: h["vca"].Output(modules.VCAAudioOut), Dst: module.AudioOutputHandle.Input(0)},
	}

	for _, c := range cables {
		if err := p.Connect(c.Src, c.Dst); err != nil {
			return patch.State{}, fmt.Errorf("demo: %w", err)
		}
	}

	set := func(id string, fn func(module.Module)) {
		m, _ := p.Module(h[id])
		fn(m)
	}

	set("clock", func(m module.Module) { m.(*modules.Clock).BPM.SetValue(480) })
	set("sequencer", func(m module.Module) {
		for i, n := range []uint8{45, 57, 52, 60, 45, 57, 55, 64} {
			m.(*modules.Sequencer).Notes[i].Set(n)
		}
	})
	set("lfo", func(m module.Module) { m.(*modules.LFO).Frequency.SetValue(0.25) })
	set("vcf", func(m module.Module) {
		vcf := m.(*modules.VCF)
		vcf.Cutoff.SetValue(400)
		vcf.CutoffAtten.SetValue(0.5)
		vcf.Resonance.SetValue(2)
	})
	set("adsr", func(m module.Module) {
		adsr := m.(*modules.ADSR)
		adsr.Decay.SetSeconds(0.08)
		adsr.Sustain.SetValue(0.3)
		adsr.Release.SetSeconds(0.05)
	})
	set("vca", func(m module.Module) {
		vca := m.(*modules.VCA)
		vca.Gain.SetValue(0.8)
		vca.GainAtten.SetValue(1)
	})

	return p.State(), nil
}
