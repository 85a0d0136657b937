// Package wavelet implements the 2-D Haar decomposition and top-coefficient
// sign encoding that turns a fingerprint image into a signed-ternary bit
// vector.
package wavelet

import (
	"math"
	"sort"

	"github.com/himanishpuri/echofp/internal/image"
)

// Decompose runs a standard 2-D Haar transform on a copy of img (img itself
// is left unchanged) and returns the coefficient matrix: a 1-D transform
// over every row, then over every column. Rows and cols need not be powers
// of two; levels below run until each dimension can no longer be halved.
func Decompose(img image.Image) [][]float64 {
	rows, cols := img.Rows, img.Cols
	coeffs := make([][]float64, rows)
	for r := range coeffs {
		coeffs[r] = append([]float64(nil), img.Data[r]...)
	}

	for r := 0; r < rows; r++ {
		haar1D(coeffs[r])
	}

	column := make([]float64, rows)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			column[r] = coeffs[r][c]
		}
		haar1D(column)
		for r := 0; r < rows; r++ {
			coeffs[r][c] = column[r]
		}
	}
	return coeffs
}

// haar1D applies an in-place multi-level Haar transform to data, halving the
// working length each level until it can no longer be halved evenly.
func haar1D(data []float64) {
	tmp := make([]float64, len(data))
	length := len(data)
	for length > 1 && length%2 == 0 {
		half := length / 2
		for i := 0; i < half; i++ {
			a, b := data[2*i], data[2*i+1]
			tmp[i] = (a + b) / math.Sqrt2
			tmp[half+i] = (a - b) / math.Sqrt2
		}
		copy(data[:length], tmp[:length])
		length = half
	}
}

// coefficient pairs a Haar coefficient with its row-major linear index, for
// deterministic top-T selection.
type coefficient struct {
	index int
	value float64
}

// TopSigns selects the top topT coefficients by descending absolute
// magnitude, breaking ties by ascending row-major index, and returns a
// signed-ternary vector of length rows*cols: +1 for a retained non-negative
// coefficient, -1 for a retained negative one, 0 elsewhere.
func TopSigns(coeffs [][]float64, topT int) []int8 {
	rows := len(coeffs)
	cols := 0
	if rows > 0 {
		cols = len(coeffs[0])
	}
	total := rows * cols

	flat := make([]coefficient, 0, total)
	idx := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			flat = append(flat, coefficient{index: idx, value: coeffs[r][c]})
			idx++
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		ai, aj := math.Abs(flat[i].value), math.Abs(flat[j].value)
		if ai != aj {
			return ai > aj
		}
		return flat[i].index < flat[j].index
	})

	if topT > total {
		topT = total
	}

	signs := make([]int8, total)
	for i := 0; i < topT; i++ {
		c := flat[i]
		if c.value >= 0 {
			signs[c.index] = 1
		} else {
			signs[c.index] = -1
		}
	}
	return signs
}
