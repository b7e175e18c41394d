package wavfile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadFile(t *testing.T) {
	t.Parallel()

	samples := []float32{0, 0.5, -0.5, 1, -1, 0.25, 2, -2}
	want := []float64{0, 0.5, -0.5, 1, -1, 0.25, 1, -1}

	for _, bits := range []int{16, 24} {
		path := filepath.Join(t.TempDir(), "out.wav")

		if err := WriteFile(path, samples, 44100, bits); err != nil {
			t.Fatalf("WriteFile(%d bits): %v", bits, err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		got, rate, err := Read(f)
		_ = f.Close()

		if err != nil {
			t.Fatalf("Read(%d bits): %v", bits, err)
		}

		if rate != 44100 {
			t.Fatalf("rate = %d, want 44100", rate)
		}

		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}

		tol := 2 / math.Exp2(float64(bits-1))
		for i := range want {
			if math.Abs(got[i]-want[i]) > tol {
				t.Fatalf("%d bits: sample %d = %v, want %v", bits, i, got[i], want[i])
			}
		}
	}
}

func TestWriteRejectsBitDepth(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.wav")

	err := WriteFile(path, []float32{0}, 48000, 12)
	if !errors.Is(err, ErrBitDepth) {
		t.Fatalf("WriteFile error = %v, want %v", err, ErrBitDepth)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := Read(strings.NewReader("definitely not a riff header"))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("Read error = %v, want %v", err, ErrInvalidFile)
	}
}
