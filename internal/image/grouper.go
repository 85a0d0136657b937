// Package image groups a run of reduced frames into fixed-size fingerprint
// images ready for wavelet encoding.
package image

// Image is a rows x cols matrix of reduced frames stacked in time.
type Image struct {
	Rows, Cols int
	Data       [][]float64 // Data[row][col]
}

// New builds one rows x cols image from reducedFrames[start:start+rows].
// The caller must ensure start+rows <= len(reducedFrames).
func New(reducedFrames [][]float64, start, rows, cols int) Image {
	img := Image{Rows: rows, Cols: cols, Data: make([][]float64, rows)}
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		copy(row, reducedFrames[start+r])
		img.Data[r] = row
	}
	return img
}

// Group slices reducedFrames into rows x cols images, stepping stride
// reduced-frames between successive groups. Overlap between
// groups (if stride < rows) is the caller's choice, not this function's.
// A trailing partial group (fewer than rows frames remaining) is dropped.
func Group(reducedFrames [][]float64, rows, cols, stride int) []Image {
	images := make([]Image, 0)
	for start := 0; start+rows <= len(reducedFrames); start += stride {
		images = append(images, New(reducedFrames, start, rows, cols))
	}
	return images
}
