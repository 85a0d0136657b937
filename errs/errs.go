// Package errs defines the tagged error kinds the recognition core returns.
// The core never retries and never logs; callers decide what to do with
// these.
package errs

import "errors"

// ErrInputTooShort names the "audio shorter than one fingerprint image"
// case in the error taxonomy, but is never actually returned: Command.Compute
// signals it with a nil, nil return (zero fingerprints), not an error value.
// It exists so callers documenting or matching against the taxonomy have
// something to name.
var ErrInputTooShort = errors.New("echofp: input shorter than one fingerprint image")

// ErrInvalidConfig marks a configuration rejected at command build time
// (e.g. top_wavelets > rows*cols). Fatal — the command was never built.
var ErrInvalidConfig = errors.New("echofp: invalid configuration")

// ErrProviderFailure marks an audio or FFT provider error. No partial state
// is left behind.
var ErrProviderFailure = errors.New("echofp: provider failure")

// ErrStoreFailure marks a model-store I/O error. Inserts are idempotent per
// (track_ref, start_offset), so callers may safely retry.
var ErrStoreFailure = errors.New("echofp: store failure")

// ErrSchemaMismatch marks disagreement between a persisted schema
// identifier and the runtime configuration. Fatal at first store access.
var ErrSchemaMismatch = errors.New("echofp: schema mismatch")
