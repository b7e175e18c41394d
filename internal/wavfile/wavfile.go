// Package wavfile writes and reads mono PCM WAV files for rendered racks.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrBitDepth is returned for bit depths other than 16, 24 and 32.
var ErrBitDepth = errors.New("wavfile: unsupported bit depth")

// ErrInvalidFile is returned by Read for data that is not a WAV file.
var ErrInvalidFile = errors.New("wavfile: invalid wav file")

const pcmFormat = 1

// Write encodes samples in [-1, 1] as integer PCM. Samples outside the
// range are clipped.
func Write(w io.WriteSeeker, samples []float32, sampleRate, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}

	full := math.Exp2(float64(bitDepth-1)) - 1

	scaled := make([]float64, len(samples))
	for i, v := range samples {
		scaled[i] = float64(v)
	}

	vecmath.ScaleBlock(scaled, scaled, full)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(scaled)),
		SourceBitDepth: bitDepth,
	}

	for i, v := range scaled {
		buf.Data[i] = int(math.Round(min(max(v, -full), full)))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, pcmFormat)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavfile: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavfile: finalize: %w", err)
	}

	return nil
}

// WriteFile writes samples to a new file at path.
func WriteFile(path string, samples []float32, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}

	if err := Write(f, samples, sampleRate, bitDepth); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Read decodes the first channel of a PCM WAV file into samples in [-1, 1]
// and returns them with the file's sample rate.
func Read(r io.ReadSeeker) ([]float64, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavfile: decode: %w", err)
	}

	channels := max(buf.Format.NumChannels, 1)
	full := math.Exp2(float64(dec.BitDepth)-1) - 1

	out := make([]float64, len(buf.Data)/channels)
	for i := range out {
		out[i] = float64(buf.Data[i*channels])
	}

	vecmath.ScaleBlock(out, out, 1/full)

	return out, buf.Format.SampleRate, nil
}
