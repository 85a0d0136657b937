// Package bitvec implements the 2-bit-per-cell serialization of a
// signed-ternary fingerprint vector, and the Hamming similarity used during
// query verification.
package bitvec

// Encode packs a signed-ternary vector (values -1, 0, +1) into a
// 2*len(signs)-bit buffer, cell by cell in order: bit pair 01 = +1,
// 10 = -1, 00 = 0. Four cells per byte, low bits first.
func Encode(signs []int8) []byte {
	buf := make([]byte, (len(signs)*2+7)/8)
	for i, s := range signs {
		var bits byte
		switch {
		case s > 0:
			bits = 0b01
		case s < 0:
			bits = 0b10
		default:
			bits = 0b00
		}
		bitOffset := uint(i * 2)
		buf[bitOffset/8] |= bits << (bitOffset % 8)
	}
	return buf
}

// Decode is the inverse of Encode, given the number of cells encoded.
func Decode(buf []byte, cells int) []int8 {
	signs := make([]int8, cells)
	for i := 0; i < cells; i++ {
		bitOffset := uint(i * 2)
		bits := (buf[bitOffset/8] >> (bitOffset % 8)) & 0b11
		switch bits {
		case 0b01:
			signs[i] = 1
		case 0b10:
			signs[i] = -1
		default:
			signs[i] = 0
		}
	}
	return signs
}

// Bit reports whether bit i (0-indexed, matching Encode's cell order but at
// single-bit granularity over the raw buffer) is set. Used by the min-hash
// stage, which operates over the full 2*rows*cols-bit space, not cells.
func Bit(buf []byte, i int) bool {
	return buf[i/8]&(1<<(uint(i)%8)) != 0
}

// Len returns the number of bits addressable in a buffer holding n cells.
func Len(cells int) int { return cells * 2 }

// Hamming returns the number of differing bits between two equal-length
// buffers holding the same number of bits.
func Hamming(a, b []byte, bits int) int {
	dist := 0
	for i := 0; i < bits; i++ {
		if Bit(a, i) != Bit(b, i) {
			dist++
		}
	}
	return dist
}
