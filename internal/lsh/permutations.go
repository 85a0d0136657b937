// Package lsh implements the min-hash / locality-sensitive-hashing encoder:
// a fixed permutation table, per-table min-hash, and packing into 32-bit
// hash keys.
package lsh

import (
	"math/rand"
	"sync"

	"github.com/OneOfOne/xxhash"
)

// Table is the process-wide, version-stamped permutation table: L*K
// permutations of [0, N), generated once from a frozen seed and never
// mutated after construction.
type Table struct {
	N            int
	L, K         int
	Permutations [][]int // len L*K, each a permutation of [0, N)
	Checksum     uint64  // xxhash of the permutation bytes, for the schema id
}

var (
	cache   = map[cacheKey]*Table{}
	cacheMu sync.Mutex
)

type cacheKey struct {
	n, l, k int
	seed    int64
}

// Build returns the permutation table for (n, l, k, seed), generating and
// caching it on first use. Tables are immutable once returned.
func Build(n, l, k int, seed int64) *Table {
	key := cacheKey{n, l, k, seed}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if t, ok := cache[key]; ok {
		return t
	}

	rng := rand.New(rand.NewSource(seed))
	perms := make([][]int, l*k)
	for i := range perms {
		perms[i] = rng.Perm(n)
	}

	t := &Table{N: n, L: l, K: k, Permutations: perms, Checksum: checksum(perms)}
	cache[key] = t
	return t
}

func checksum(perms [][]int) uint64 {
	buf := make([]byte, 0, 4*len(perms)*len(perms[0]))
	for _, perm := range perms {
		for _, v := range perm {
			buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		}
	}
	return xxhash.Checksum64(buf)
}
