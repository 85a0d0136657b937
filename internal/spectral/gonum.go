package spectral

import "gonum.org/v1/gonum/dsp/fourier"

// GonumProvider backs Provider with gonum's real-to-complex FFT. It is
// offered as an alternate transform for callers that want to benchmark or
// cross-check against the default go-dsp backend.
type GonumProvider struct{}

type gonumTransform struct {
	fft *fourier.FFT
	n   int
}

func (GonumProvider) New(n int) Transform {
	return &gonumTransform{fft: fourier.NewFFT(n), n: n}
}

func (t *gonumTransform) ForwardReal(frame []float64) []complex128 {
	return t.fft.Coefficients(nil, frame)
}
