package dsp

import (
	"math"
	"testing"

	"github.com/himanishpuri/echofp/internal/spectral"
)

func TestHannEndpoints(t *testing.T) {
	w := Hann(8)
	if w[0] != 0 {
		t.Errorf("Hann(8)[0] = %v, want 0", w[0])
	}
	if math.Abs(w[len(w)-1]) > 1e-9 {
		t.Errorf("Hann(8) last sample = %v, want ~0", w[len(w)-1])
	}
}

func TestFrameShortInputIsEmptyNotError(t *testing.T) {
	samples := make([]float32, 10)
	spectra := Frame(samples, 2048, 64, spectral.GoDSPProvider{})
	if spectra == nil {
		t.Fatal("Frame returned nil, want empty non-nil slice")
	}
	if len(spectra) != 0 {
		t.Errorf("Frame(short input) produced %d spectra, want 0", len(spectra))
	}
}

func TestFrameProducesExpectedCountAndLength(t *testing.T) {
	frameSize, overlap := 256, 64
	samples := make([]float32, frameSize+3*overlap)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * float64(i) / 32))
	}

	spectra := Frame(samples, frameSize, overlap, spectral.GoDSPProvider{})
	want := (len(samples)-frameSize)/overlap + 1
	if len(spectra) != want {
		t.Fatalf("got %d frames, want %d", len(spectra), want)
	}
	for _, s := range spectra {
		if len(s) != frameSize/2 {
			t.Errorf("spectrum length = %d, want %d", len(s), frameSize/2)
		}
	}
}

func TestFrameDeterministic(t *testing.T) {
	samples := make([]float32, 512)
	for i := range samples {
		samples[i] = float32(math.Cos(float64(i) * 0.1))
	}
	a := Frame(samples, 256, 64, spectral.GoDSPProvider{})
	b := Frame(samples, 256, 64, spectral.GoDSPProvider{})
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("non-deterministic output at frame %d bin %d: %v != %v", i, j, a[i][j], b[i][j])
			}
		}
	}
}
