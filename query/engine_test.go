package query

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/himanishpuri/echofp/fingerprint"
	"github.com/himanishpuri/echofp/internal/bitvec"
	"github.com/himanishpuri/echofp/store"
)

// sineProvider synthesizes a fixed sine wave so this package's tests don't
// depend on ffmpeg or real audio fixtures.
type sineProvider struct {
	freq       float64
	sampleRate int
	seconds    float64
}

func sineProviderFor(freq float64, sampleRate int, seconds float64) sineProvider {
	return sineProvider{freq: freq, sampleRate: sampleRate, seconds: seconds}
}

func (p sineProvider) ReadMonoSamples(ctx context.Context, source string, sampleRate int, start, length float64) ([]float32, error) {
	n := int(p.seconds * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * p.freq * float64(i) / float64(sampleRate)))
	}
	return samples, nil
}

// memStore is a minimal in-memory Store for exercising the query engine
// without a real database.
type memStore struct {
	tracks    map[store.TrackRef]store.TrackMetadata
	subToTrk  map[store.SubFpRef]store.TrackRef
	subBits   map[store.SubFpRef][]byte
	hashIndex map[[2]uint64][]store.SubFpRef // key: {tableIndex, hashKey}
	nextID    int
	schemaID  string
}

func newMemStore() *memStore {
	return &memStore{
		tracks:    map[store.TrackRef]store.TrackMetadata{},
		subToTrk:  map[store.SubFpRef]store.TrackRef{},
		subBits:   map[store.SubFpRef][]byte{},
		hashIndex: map[[2]uint64][]store.SubFpRef{},
	}
}

func (m *memStore) InsertTrack(ctx context.Context, meta store.TrackMetadata) (store.TrackRef, error) {
	ref := store.TrackRef(fmt.Sprintf("track-%d", len(m.tracks)))
	m.tracks[ref] = meta
	return ref, nil
}

func (m *memStore) InsertSubfingerprints(ctx context.Context, track store.TrackRef, entries []store.SubFingerprint) error {
	for _, e := range entries {
		m.nextID++
		ref := store.SubFpRef(fmt.Sprintf("sfp-%d", m.nextID))
		m.subToTrk[ref] = track
		m.subBits[ref] = e.Bits
		for t, key := range e.HashKeys {
			k := [2]uint64{uint64(t), uint64(key)}
			m.hashIndex[k] = append(m.hashIndex[k], ref)
		}
	}
	return nil
}

func (m *memStore) ReadSubfingerprintsByHash(ctx context.Context, tableIndex int, key uint32) ([]store.SubFpRef, error) {
	return m.hashIndex[[2]uint64{uint64(tableIndex), uint64(key)}], nil
}

func (m *memStore) ReadFingerprintBits(ctx context.Context, ref store.SubFpRef) ([]byte, error) {
	return m.subBits[ref], nil
}

func (m *memStore) ReadTrack(ctx context.Context, ref store.TrackRef) (store.TrackMetadata, error) {
	return m.tracks[ref], nil
}

func (m *memStore) TrackFor(ctx context.Context, ref store.SubFpRef) (store.TrackRef, error) {
	return m.subToTrk[ref], nil
}

func (m *memStore) ListTracks(ctx context.Context) ([]store.TrackMetadata, error) {
	out := make([]store.TrackMetadata, 0, len(m.tracks))
	for _, t := range m.tracks {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) DeleteTrack(ctx context.Context, track store.TrackRef) error {
	delete(m.tracks, track)
	return nil
}

func (m *memStore) SchemaID(ctx context.Context) (string, error) { return m.schemaID, nil }
func (m *memStore) SetSchemaID(ctx context.Context, id string) error {
	m.schemaID = id
	return nil
}
func (m *memStore) Close() error { return nil }

func TestSelfQueryReturnsIngestedTrack(t *testing.T) {
	provider := sineProviderFor(440, 5512, 10)
	cmd, err := fingerprint.NewBuilder(provider).From("sine").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fps, err := cmd.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(fps) < 5 {
		t.Fatalf("need at least 5 fingerprints for this scenario, got %d", len(fps))
	}

	s := newMemStore()
	entries := make([]store.SubFingerprint, len(fps))
	for i, fp := range fps {
		entries[i] = store.SubFingerprint{StartOffsetSeconds: fp.StartOffsetSeconds, Bits: fp.Bits, HashKeys: fp.HashKeys}
	}
	track, _ := s.InsertTrack(context.Background(), store.TrackMetadata{Title: "self-query"})
	if err := s.InsertSubfingerprints(context.Background(), track, entries); err != nil {
		t.Fatalf("InsertSubfingerprints: %v", err)
	}

	engine := NewEngine(s, cmd.Config().BitLength(), DefaultConfig())
	outcome, err := engine.Query(context.Background(), fps)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !outcome.IsSuccessful {
		t.Fatal("expected a successful self-query match")
	}
	if outcome.BestMatch.Track != track {
		t.Errorf("best match = %v, want %v", outcome.BestMatch.Track, track)
	}
	if outcome.BestMatch.MatchedFps < DefaultConfig().ThresholdVotes {
		t.Errorf("matched_fps = %d, want >= %d", outcome.BestMatch.MatchedFps, DefaultConfig().ThresholdVotes)
	}
}

func TestEmptyQueryIsUnsuccessful(t *testing.T) {
	s := newMemStore()
	engine := NewEngine(s, 8192, DefaultConfig())
	outcome, err := engine.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if outcome.IsSuccessful {
		t.Error("expected empty query to be unsuccessful")
	}
}

func TestNoHashHitsIsUnsuccessful(t *testing.T) {
	s := newMemStore()
	track, _ := s.InsertTrack(context.Background(), store.TrackMetadata{Title: "other"})
	_ = s.InsertSubfingerprints(context.Background(), track, []store.SubFingerprint{
		{Bits: bitvec.Encode(make([]int8, 4096)), HashKeys: []uint32{1, 2, 3}},
	})

	fp := fingerprint.Fingerprint{Bits: bitvec.Encode(make([]int8, 4096)), HashKeys: []uint32{99, 98, 97}}
	engine := NewEngine(s, 8192, DefaultConfig())
	outcome, err := engine.Query(context.Background(), []fingerprint.Fingerprint{fp})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if outcome.IsSuccessful {
		t.Error("expected no-hash query to be unsuccessful")
	}
}
