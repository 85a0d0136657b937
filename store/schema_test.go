package store

import (
	"context"
	"errors"
	"testing"

	"github.com/himanishpuri/echofp/errs"
)

type fakeSchemaStore struct {
	id  string
	err error
}

func (f *fakeSchemaStore) InsertTrack(context.Context, TrackMetadata) (TrackRef, error) { return "", nil }
func (f *fakeSchemaStore) InsertSubfingerprints(context.Context, TrackRef, []SubFingerprint) error {
	return nil
}
func (f *fakeSchemaStore) ReadSubfingerprintsByHash(context.Context, int, uint32) ([]SubFpRef, error) {
	return nil, nil
}
func (f *fakeSchemaStore) ReadFingerprintBits(context.Context, SubFpRef) ([]byte, error) { return nil, nil }
func (f *fakeSchemaStore) ReadTrack(context.Context, TrackRef) (TrackMetadata, error)     { return TrackMetadata{}, nil }
func (f *fakeSchemaStore) TrackFor(context.Context, SubFpRef) (TrackRef, error)           { return "", nil }
func (f *fakeSchemaStore) ListTracks(context.Context) ([]TrackMetadata, error)            { return nil, nil }
func (f *fakeSchemaStore) DeleteTrack(context.Context, TrackRef) error                    { return nil }
func (f *fakeSchemaStore) SchemaID(context.Context) (string, error)                       { return f.id, f.err }
func (f *fakeSchemaStore) SetSchemaID(ctx context.Context, id string) error {
	f.id = id
	return nil
}
func (f *fakeSchemaStore) Close() error { return nil }

func TestSchemaIDDeterministic(t *testing.T) {
	a := SchemaID(128, 32, 25, 4, 42, 200)
	b := SchemaID(128, 32, 25, 4, 42, 200)
	if a != b {
		t.Fatalf("SchemaID not deterministic: %q != %q", a, b)
	}
}

func TestSchemaIDChangesWithParameters(t *testing.T) {
	a := SchemaID(128, 32, 25, 4, 42, 200)
	b := SchemaID(128, 32, 25, 4, 43, 200)
	if a == b {
		t.Fatal("SchemaID should differ when the permutation seed changes")
	}
}

func TestCheckSchemaAdoptsOnFreshStore(t *testing.T) {
	s := &fakeSchemaStore{}
	if err := CheckSchema(context.Background(), s, "v1"); err != nil {
		t.Fatalf("CheckSchema on fresh store: %v", err)
	}
	if s.id != "v1" {
		t.Errorf("fresh store did not record schema id, got %q", s.id)
	}
}

func TestCheckSchemaRejectsMismatch(t *testing.T) {
	s := &fakeSchemaStore{id: "v1"}
	err := CheckSchema(context.Background(), s, "v2")
	if !errors.Is(err, errs.ErrSchemaMismatch) {
		t.Fatalf("got %v, want ErrSchemaMismatch", err)
	}
}
