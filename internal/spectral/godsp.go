package spectral

import "github.com/mjibson/go-dsp/fft"

// GoDSPProvider backs Provider with github.com/mjibson/go-dsp/fft, the
// default transform used at both ingest and query time.
type GoDSPProvider struct{}

type goDSPTransform struct{ n int }

func (GoDSPProvider) New(n int) Transform {
	return &goDSPTransform{n: n}
}

func (t *goDSPTransform) ForwardReal(frame []float64) []complex128 {
	full := fft.FFTReal(frame)
	half := t.n/2 + 1
	if half > len(full) {
		half = len(full)
	}
	return full[:half]
}
