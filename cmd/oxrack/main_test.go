package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-rack/internal/config"
	"github.com/cwbudde/algo-rack/internal/testutil"
	"github.com/cwbudde/algo-rack/internal/wavfile"
	"github.com/cwbudde/algo-rack/modules"
	"github.com/cwbudde/algo-rack/patch"
)

func TestDemoRendersAudio(t *testing.T) {
	t.Parallel()

	state, err := demoState()
	if err != nil {
		t.Fatalf("demoState: %v", err)
	}

	cfg := config.DefaultConfig()

	samples, err := renderState(cfg, state, cfg.SampleRate/2)
	if err != nil {
		t.Fatalf("renderState: %v", err)
	}

	testutil.RequireFinite(t, samples)
	// The filter clamps to the rails and the VCA gain stays below one.
	testutil.RequireWithin(t, samples, -2.4, 2.4)

	var peak float32
	for _, v := range samples {
		peak = max(peak, v, -v)
	}

	if peak < 0.01 {
		t.Fatalf("demo is silent: peak %v", peak)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	state, err := demoState()
	if err != nil {
		t.Fatalf("demoState: %v", err)
	}

	cfg := config.DefaultConfig()

	a, err := renderState(cfg, state, 8192)
	if err != nil {
		t.Fatal(err)
	}

	b, err := renderState(cfg, state, 8192)
	if err != nil {
		t.Fatal(err)
	}

	if i := testutil.FirstDifference(a, b); i >= 0 {
		t.Fatalf("renders differ at %d", i)
	}
}

func TestLoadStateFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	demo, err := demoState()
	if err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(dir, "demo.json")
	if err := patch.WriteFile(jsonPath, demo); err != nil {
		t.Fatal(err)
	}

	luaPath := filepath.Join(dir, "voice.LUA")
	script := `
local vco = rack.add("vco")
rack.output(vco, 0)
`
	if err := os.WriteFile(luaPath, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		modules int
	}{
		{"", len(demo.Modules)},
		{jsonPath, len(demo.Modules)},
		{luaPath, 1},
	}

	for _, tc := range tests {
		s, err := loadState(tc.path)
		if err != nil {
			t.Fatalf("loadState(%q): %v", tc.path, err)
		}

		if len(s.Modules) != tc.modules {
			t.Fatalf("loadState(%q) modules = %d, want %d", tc.path, len(s.Modules), tc.modules)
		}
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")

	file := config.DefaultConfig()
	file.SampleRate = 44100
	file.BufferFrames = 512

	if err := file.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(globalFlags{configPath: path, frames: 128, backend: "portaudio"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.SampleRate != 44100 || cfg.BufferFrames != 128 || cfg.Backend != config.BackendPortAudio {
		t.Fatalf("got %+v", *cfg)
	}

	if _, err := loadConfig(globalFlags{configPath: path, backend: "alsa"}); err == nil {
		t.Fatal("loadConfig accepted an unknown backend")
	}
}

func TestPrintModules(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := printModules(&buf, modules.DefaultRegistry()); err != nil {
		t.Fatalf("printModules: %v", err)
	}

	for _, id := range modules.DefaultRegistry().IDs() {
		if !strings.Contains(buf.String(), id) {
			t.Fatalf("output missing %q:\n%s", id, buf.String())
		}
	}
}

func TestRenderWritesWAV(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "demo.wav")
	cfg := config.DefaultConfig()

	if err := runRender(cfg, []string{"-o", out, "-seconds", "0.25"}); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	samples, rate, err := wavfile.Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if rate != cfg.SampleRate || len(samples) != cfg.SampleRate/4 {
		t.Fatalf("got %d samples at %d Hz, want %d at %d", len(samples), rate, cfg.SampleRate/4, cfg.SampleRate)
	}
}
