package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/himanishpuri/echofp/errs"
	"github.com/himanishpuri/echofp/fingerprint"
	"github.com/himanishpuri/echofp/internal/bitvec"
	"github.com/himanishpuri/echofp/store"
)

// Result is one ranked track candidate.
type Result struct {
	Track      store.TrackRef
	MatchedFps int
	Score      float64
	// Confidence is an informational 0-100 rating derived from Score
	// relative to the best score in this query. It has no effect on
	// ranking or the threshold_votes gate.
	Confidence float64
}

// Outcome is the full result of one query.
type Outcome struct {
	Results      []Result
	BestMatch    *Result
	IsSuccessful bool
}

// Engine resolves a query's fingerprints against a model store.
type Engine struct {
	store     store.Store
	cfg       Config
	bitLength int
}

func NewEngine(s store.Store, bitLength int, cfg Config) *Engine {
	return &Engine{store: s, cfg: cfg, bitLength: bitLength}
}

// Query runs candidate gathering, similarity verification, and track
// aggregation/ranking over fps. An empty fps yields IsSuccessful == false,
// not an error.
func (e *Engine) Query(ctx context.Context, fps []fingerprint.Fingerprint) (Outcome, error) {
	if len(fps) == 0 {
		return Outcome{}, nil
	}

	trackMatchedFps := map[store.TrackRef]map[int]bool{} // track -> set of query-fp indices with >=1 verified hit
	trackScore := map[store.TrackRef]float64{}

	for qi, q := range fps {
		hitCounts := map[store.SubFpRef]int{}
		for t, key := range q.HashKeys {
			refs, err := e.store.ReadSubfingerprintsByHash(ctx, t, key)
			if err != nil {
				return Outcome{}, fmt.Errorf("%w: %v", errs.ErrStoreFailure, err)
			}
			for _, ref := range refs {
				hitCounts[ref]++
			}
		}

		for ref, h := range hitCounts {
			if h < e.cfg.MinHitsPerFp {
				continue
			}
			bits, err := e.store.ReadFingerprintBits(ctx, ref)
			if err != nil {
				return Outcome{}, fmt.Errorf("%w: %v", errs.ErrStoreFailure, err)
			}
			sim := 1 - float64(bitvec.Hamming(q.Bits, bits, e.bitLength))/float64(e.bitLength)
			if sim < e.cfg.MinSimilarity {
				continue
			}
			track, err := e.store.TrackFor(ctx, ref)
			if err != nil {
				return Outcome{}, fmt.Errorf("%w: %v", errs.ErrStoreFailure, err)
			}
			if trackMatchedFps[track] == nil {
				trackMatchedFps[track] = map[int]bool{}
			}
			trackMatchedFps[track][qi] = true
			trackScore[track] += sim
		}
	}

	results := make([]Result, 0, len(trackMatchedFps))
	var maxScore float64
	for track, fpSet := range trackMatchedFps {
		matched := len(fpSet)
		if matched < e.cfg.ThresholdVotes {
			continue
		}
		score := trackScore[track]
		if score > maxScore {
			maxScore = score
		}
		results = append(results, Result{Track: track, MatchedFps: matched, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].MatchedFps != results[j].MatchedFps {
			return results[i].MatchedFps > results[j].MatchedFps
		}
		return results[i].Track < results[j].Track
	})

	if maxScore > 0 {
		for i := range results {
			results[i].Confidence = 100 * results[i].Score / maxScore
		}
	}

	outcome := Outcome{Results: results}
	if len(results) > 0 {
		best := results[0]
		outcome.BestMatch = &best
		outcome.IsSuccessful = true
	}
	return outcome, nil
}
