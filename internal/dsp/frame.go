// Package dsp implements the spectral framing and log-band reduction stages
// of the fingerprint pipeline (spectral slicing, windowing, FFT magnitude,
// and collapsing bins into a fixed band grid).
package dsp

import (
	"math"

	"github.com/himanishpuri/echofp/internal/spectral"
)

// Hann returns an n-sample Hann window.
func Hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// Frame frames samples into overlapping windows of frameSize, hopped by
// overlap, and returns the magnitude spectrum (length frameSize/2) of each.
// A frame straddling the end of samples is dropped, never zero-padded.
// Input shorter than frameSize yields an empty, non-nil slice.
func Frame(samples []float32, frameSize, overlap int, provider spectral.Provider) [][]float64 {
	spectra := make([][]float64, 0)
	if len(samples) < frameSize {
		return spectra
	}

	window := Hann(frameSize)
	transform := provider.New(frameSize)
	buf := make([]float64, frameSize)

	for start := 0; start+frameSize <= len(samples); start += overlap {
		for i := 0; i < frameSize; i++ {
			buf[i] = float64(samples[start+i]) * window[i]
		}
		coeffs := transform.ForwardReal(buf)
		spectra = append(spectra, magnitude(coeffs, frameSize/2))
	}
	return spectra
}

func magnitude(coeffs []complex128, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(coeffs); i++ {
		re, im := real(coeffs[i]), imag(coeffs[i])
		out[i] = math.Sqrt(re*re + im*im)
	}
	return out
}
