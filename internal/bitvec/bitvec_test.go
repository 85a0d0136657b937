package bitvec

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	signs := []int8{1, -1, 0, 1, 0, -1, -1, 1}
	buf := Encode(signs)
	got := Decode(buf, len(signs))
	for i := range signs {
		if got[i] != signs[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], signs[i])
		}
	}
}

func TestHammingIdenticalIsZero(t *testing.T) {
	signs := []int8{1, -1, 0, 1}
	buf := Encode(signs)
	if d := Hamming(buf, buf, Len(len(signs))); d != 0 {
		t.Errorf("Hamming(x, x) = %d, want 0", d)
	}
}

func TestHammingCountsDifferingBits(t *testing.T) {
	a := Encode([]int8{1, 0, 0, 0})
	b := Encode([]int8{-1, 0, 0, 0})
	// +1 = 01, -1 = 10: every bit in the first cell differs.
	if d := Hamming(a, b, Len(4)); d != 2 {
		t.Errorf("Hamming = %d, want 2", d)
	}
}
