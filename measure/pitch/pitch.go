package pitch

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

var (
	errShortSignal = errors.New("pitch: signal too short")
	errSampleRate  = errors.New("pitch: sample rate must be positive")
	errSilent      = errors.New("pitch: signal has no energy")
)

// Result holds a fundamental frequency estimate.
type Result struct {
	Frequency float64
	// Bin is the interpolated peak position in FFT bins.
	Bin float64
	// Magnitude is the linear magnitude of the peak bin.
	Magnitude float64
	FFTSize   int
}

// Estimate returns the frequency of the strongest spectral component of
// signal. The DC bin is ignored.
func Estimate(signal []float64, sampleRate float64) (Result, error) {
	if sampleRate <= 0 {
		return Result{}, errSampleRate
	}

	if len(signal) < 4 {
		return Result{}, errShortSignal
	}

	fftSize := nextPowerOf2(len(signal))

	windowed := make([]float64, len(signal))
	vecmath.MulBlock(windowed, signal, hann(len(signal)))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("pitch: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("pitch: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	peak := 1
	for i := 2; i < bins; i++ {
		if mag[i] > mag[peak] {
			peak = i
		}
	}

	if mag[peak] == 0 {
		return Result{}, errSilent
	}

	bin := float64(peak) + interpolate(mag, peak)

	return Result{
		Frequency: bin * sampleRate / float64(fftSize),
		Bin:       bin,
		Magnitude: mag[peak],
		FFTSize:   fftSize,
	}, nil
}

// interpolate returns the offset of the true peak from bin k, fitting a
// parabola through the log magnitudes of k-1, k and k+1.
func interpolate(mag []float64, k int) float64 {
	if k <= 0 || k >= len(mag)-1 {
		return 0
	}

	a := math.Log(mag[k-1] + 1e-300)
	b := math.Log(mag[k] + 1e-300)
	c := math.Log(mag[k+1] + 1e-300)

	den := a - 2*b + c
	if den == 0 {
		return 0
	}

	return 0.5 * (a - c) / den
}

// ZeroCrossingPeriod returns the mean number of samples between rising zero
// crossings, located with linear interpolation. ok is false when fewer than
// two crossings are found.
func ZeroCrossingPeriod(signal []float64) (period float64, ok bool) {
	first, last := -1.0, -1.0
	count := 0

	for i := 1; i < len(signal); i++ {
		prev, cur := signal[i-1], signal[i]
		if prev >= 0 || cur < 0 {
			continue
		}

		pos := float64(i-1) + prev/(prev-cur)
		if first < 0 {
			first = pos
		}

		last = pos
		count++
	}

	if count < 2 {
		return 0, false
	}

	return (last - first) / float64(count-1), true
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1

		return w
	}

	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}

	return w
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
