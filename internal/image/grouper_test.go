package image

import "testing"

func frames(n, cols int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, cols)
		for c := range row {
			row[c] = float64(i*cols + c)
		}
		out[i] = row
	}
	return out
}

func TestNewCopiesRequestedWindow(t *testing.T) {
	f := frames(10, 3)
	img := New(f, 2, 4, 3)
	if img.Rows != 4 || img.Cols != 3 {
		t.Fatalf("got %dx%d, want 4x3", img.Rows, img.Cols)
	}
	if img.Data[0][0] != f[2][0] {
		t.Errorf("first row = %v, want frame 2", img.Data[0])
	}
	// mutating the image must not alias the source frames.
	img.Data[0][0] = -1
	if f[2][0] == -1 {
		t.Error("New should copy, not alias, the underlying frames")
	}
}

func TestGroupDropsTrailingPartial(t *testing.T) {
	f := frames(10, 2)
	images := Group(f, 4, 2, 4)
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2 (frames 0-3 and 4-7; 8-9 dropped)", len(images))
	}
	if images[1].Data[0][0] != f[4][0] {
		t.Errorf("second image starts at wrong offset")
	}
}

func TestGroupEmptyWhenShorterThanRows(t *testing.T) {
	f := frames(3, 2)
	if images := Group(f, 4, 2, 4); len(images) != 0 {
		t.Errorf("got %d images, want 0", len(images))
	}
}
