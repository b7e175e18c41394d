package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if *cfg != *DefaultConfig() {
		t.Fatalf("got %+v, want defaults %+v", *cfg, *DefaultConfig())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.json")

	want := DefaultConfig()
	want.Backend = BackendPortAudio
	want.SampleRate = 44100
	want.MIDIPort = "Keystep"
	want.LogLevel = "debug"

	if err := want.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if *got != *want {
		t.Fatalf("got %+v, want %+v", *got, *want)
	}

	if got.Level() != slog.LevelDebug {
		t.Fatalf("Level() = %v, want %v", got.Level(), slog.LevelDebug)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"bufferFrames": 128}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.BufferFrames != 128 || cfg.SampleRate != 48000 || cfg.Backend != BackendOto {
		t.Fatalf("got %+v", *cfg)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"backend":     `{"backend": "jack"}`,
		"sample rate": `{"sampleRate": -1}`,
		"level":       `{"logLevel": "loud"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}

			if _, err := LoadFile(path); !errors.Is(err, ErrInvalid) {
				t.Fatalf("LoadFile error = %v, want %v", err, ErrInvalid)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
}
