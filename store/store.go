// Package store defines the narrow model-store contract the recognition
// core consumes, plus a default GORM/SQLite implementation.
package store

import "context"

// TrackRef is an opaque store-assigned reference to a track.
type TrackRef string

// SubFpRef is an opaque store-assigned reference to one sub-fingerprint.
type SubFpRef string

// TrackMetadata describes one ingested track.
type TrackMetadata struct {
	ExternalID    string // ISRC or synthetic source identifier
	Artist        string
	Title         string
	Album         string
	ReleaseYear   int
	LengthSeconds float64
}

// SubFingerprint is one wavelet-encoded fingerprint awaiting insertion.
type SubFingerprint struct {
	StartOffsetSeconds float64
	Bits               []byte
	HashKeys           []uint32
}

// Store is the contract the fingerprint and query packages depend on. Any
// backend satisfying it is valid: SQL, key-value, or in-memory. The core
// does not assume transactional semantics beyond "inserts are durable
// before the next read."
type Store interface {
	InsertTrack(ctx context.Context, meta TrackMetadata) (TrackRef, error)
	InsertSubfingerprints(ctx context.Context, track TrackRef, entries []SubFingerprint) error
	ReadSubfingerprintsByHash(ctx context.Context, tableIndex int, key uint32) ([]SubFpRef, error)
	ReadFingerprintBits(ctx context.Context, ref SubFpRef) ([]byte, error)
	ReadTrack(ctx context.Context, ref TrackRef) (TrackMetadata, error)
	// TrackFor resolves the track a sub-fingerprint belongs to; the query
	// engine's track aggregation needs this to fold per-fingerprint hits
	// into per-track scores.
	TrackFor(ctx context.Context, ref SubFpRef) (TrackRef, error)

	// ListTracks and DeleteTrack support the corpus's cascading-delete
	// lifecycle: removing a track removes its sub-fingerprints and their
	// derived hash entries too.
	ListTracks(ctx context.Context) ([]TrackMetadata, error)
	DeleteTrack(ctx context.Context, track TrackRef) error

	// SchemaID returns the persisted schema identifier, or "" if this is a
	// fresh store that has not recorded one yet.
	SchemaID(ctx context.Context) (string, error)
	// SetSchemaID records the schema identifier for a fresh store.
	SetSchemaID(ctx context.Context, id string) error

	Close() error
}
