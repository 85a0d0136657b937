package wavelet

import (
	"testing"

	"github.com/himanishpuri/echofp/internal/image"
)

func TestTopSignsRetainsExactlyTopT(t *testing.T) {
	img := image.Image{Rows: 8, Cols: 4, Data: make([][]float64, 8)}
	for r := range img.Data {
		row := make([]float64, 4)
		for c := range row {
			row[c] = float64(r*4 + c)
		}
		img.Data[r] = row
	}

	coeffs := Decompose(img)
	const topT = 5
	signs := TopSigns(coeffs, topT)

	nonzero := 0
	for _, s := range signs {
		if s != 0 {
			nonzero++
			if s != 1 && s != -1 {
				t.Fatalf("sign value %d is not in {-1, 1}", s)
			}
		}
	}
	if nonzero != topT {
		t.Errorf("got %d nonzero entries, want %d", nonzero, topT)
	}
}

func TestTopSignsAllSilentIsDeterministic(t *testing.T) {
	img := image.Image{Rows: 4, Cols: 4, Data: make([][]float64, 4)}
	for r := range img.Data {
		img.Data[r] = make([]float64, 4)
	}
	coeffs := Decompose(img)

	a := TopSigns(coeffs, 6)
	b := TopSigns(coeffs, 6)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("all-silent tie-break not deterministic at index %d", i)
		}
	}
	// Ties at magnitude 0 break by row-major index: the first `topT` cells
	// win, deterministically.
	for i := 0; i < 6; i++ {
		if a[i] != 1 {
			t.Errorf("index %d = %d, want +1 (all-silent tie-break picks non-negative sign)", i, a[i])
		}
	}
	for i := 6; i < len(a); i++ {
		if a[i] != 0 {
			t.Errorf("index %d = %d, want 0 beyond top-T cutoff", i, a[i])
		}
	}
}

func TestDecomposeShapePreserved(t *testing.T) {
	img := image.Image{Rows: 4, Cols: 8, Data: make([][]float64, 4)}
	for r := range img.Data {
		img.Data[r] = make([]float64, 8)
	}
	coeffs := Decompose(img)
	if len(coeffs) != 4 {
		t.Fatalf("got %d rows, want 4", len(coeffs))
	}
	for _, row := range coeffs {
		if len(row) != 8 {
			t.Fatalf("got %d cols, want 8", len(row))
		}
	}
}
