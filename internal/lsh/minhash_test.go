package lsh

import (
	"testing"

	"github.com/himanishpuri/echofp/internal/bitvec"
)

func TestKeysDeterministicByPermutations(t *testing.T) {
	table := Build(64, 4, 2, 42)
	signs := make([]int8, 32)
	for i := range signs {
		if i%3 == 0 {
			signs[i] = 1
		}
	}
	bits := bitvec.Encode(signs)

	a := table.Encode(bits)
	b := table.Encode(bits)
	if len(a) != 4 {
		t.Fatalf("got %d keys, want L=4", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("key %d not deterministic: %v != %v", i, a[i], b[i])
		}
	}
}

func TestMinHashSentinelWhenNoBitSet(t *testing.T) {
	table := Build(16, 1, 1, 1)
	bits := make([]byte, 2) // all zero: no bit set anywhere
	mh := table.MinHashes(bits)
	if mh[0] != table.N {
		t.Errorf("min-hash of all-zero vector = %d, want sentinel %d", mh[0], table.N)
	}
}

func TestBuildIsCachedAndReproducible(t *testing.T) {
	a := Build(64, 2, 2, 7)
	b := Build(64, 2, 2, 7)
	if a != b {
		t.Fatal("Build with identical parameters should return the cached table")
	}
	if a.Checksum != b.Checksum {
		t.Fatal("checksum mismatch between calls with identical parameters")
	}
}
