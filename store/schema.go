package store

import (
	"context"
	"fmt"

	"github.com/himanishpuri/echofp/errs"
	"github.com/himanishpuri/echofp/internal/lsh"
)

// SchemaID encodes the structural parameters that determine index
// compatibility: rows, cols, N, L, K, permutation seed and its checksum,
// and default top_wavelets.
func SchemaID(rows, cols, l, k int, permSeed int64, topWaveletsDefault int) string {
	n := 2 * rows * cols
	table := lsh.Build(n, l, k, permSeed)
	return fmt.Sprintf("echofp-v1:rows=%d,cols=%d,N=%d,L=%d,K=%d,seed=%d,perm=%x,top=%d",
		rows, cols, n, l, k, permSeed, table.Checksum, topWaveletsDefault)
}

// CheckSchema compares the runtime schema id against whatever is persisted,
// recording the runtime id on a fresh store. Disagreement is fatal
// (ErrSchemaMismatch) at first access.
func CheckSchema(ctx context.Context, s Store, runtimeID string) error {
	persisted, err := s.SchemaID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStoreFailure, err)
	}
	if persisted == "" {
		return s.SetSchemaID(ctx, runtimeID)
	}
	if persisted != runtimeID {
		return fmt.Errorf("%w: store has %q, runtime wants %q", errs.ErrSchemaMismatch, persisted, runtimeID)
	}
	return nil
}
