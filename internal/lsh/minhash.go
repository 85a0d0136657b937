package lsh

import "github.com/himanishpuri/echofp/internal/bitvec"

// MinHashes computes one min-hash value per permutation in t against the
// given bit buffer: the smallest index i such that bit t.Permutations[p][i]
// is set, or the sentinel t.N if no bit under that permutation is set.
func (t *Table) MinHashes(bits []byte) []int {
	out := make([]int, len(t.Permutations))
	for p, perm := range t.Permutations {
		out[p] = t.N
		for i, target := range perm {
			if bitvec.Bit(bits, target) {
				out[p] = i
				break
			}
		}
	}
	return out
}

// Keys packs the L*K min-hash values from MinHashes into L 32-bit keys, K
// bytes each, little-endian, clamping each min-hash to [0, 255].
func (t *Table) Keys(minHashes []int) []uint32 {
	keys := make([]uint32, t.L)
	for table := 0; table < t.L; table++ {
		var key uint32
		for k := 0; k < t.K; k++ {
			v := minHashes[table*t.K+k]
			if v > 255 {
				v = 255
			}
			key |= uint32(byte(v)) << (8 * uint(k))
		}
		keys[table] = key
	}
	return keys
}

// Encode is a convenience wrapper computing both min-hashes and keys.
func (t *Table) Encode(bits []byte) []uint32 {
	return t.Keys(t.MinHashes(bits))
}
