// Package pitch estimates the fundamental frequency of rendered signals.
//
// Estimate locates the strongest spectral peak of a Hann-windowed FFT and
// refines it by parabolic interpolation of the log magnitudes around the
// peak. ZeroCrossingPeriod measures the mean distance between rising zero
// crossings, which is exact for clean periodic waveforms such as a VCO
// sawtooth.
package pitch
