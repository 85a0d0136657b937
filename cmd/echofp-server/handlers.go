package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/himanishpuri/echofp/fingerprint"
	"github.com/himanishpuri/echofp/internal/stride"
	"github.com/himanishpuri/echofp/query"
	"github.com/himanishpuri/echofp/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ingestRequest struct {
	Path        string `json:"path"`
	ExternalID  string `json:"external_id"`
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Album       string `json:"album"`
	ReleaseYear int    `json:"release_year"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	cmd, err := fingerprint.NewBuilder(s.provider).From(req.Path).WithOptions(
		func(c *fingerprint.Config) { *c = s.fpConfig },
	).Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fps, err := cmd.Compute(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fps) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"fingerprints": 0})
		return
	}

	track, err := s.store.InsertTrack(ctx, store.TrackMetadata{
		ExternalID: req.ExternalID, Artist: req.Artist, Title: req.Title, Album: req.Album, ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	entries := make([]store.SubFingerprint, len(fps))
	for i, fp := range fps {
		entries[i] = store.SubFingerprint{StartOffsetSeconds: fp.StartOffsetSeconds, Bits: fp.Bits, HashKeys: fp.HashKeys}
	}
	if err := s.store.InsertSubfingerprints(ctx, track, entries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"track": string(track), "fingerprints": len(fps)})
}

type queryRequest struct {
	Path    string  `json:"path"`
	Seconds float64 `json:"seconds"`
	Start   float64 `json:"start"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	cmd, err := fingerprint.NewBuilder(s.provider).
		From(req.Path).WithStart(req.Start).WithLength(req.Seconds).
		WithOptions(
			func(c *fingerprint.Config) { *c = s.fpConfig },
			fingerprint.WithStride(stride.Incremental{}),
		).Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fps, err := cmd.Compute(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	engine := query.NewEngine(s.store, s.fpConfig.BitLength(), query.DefaultConfig())
	outcome, err := engine.Query(ctx, fps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tracks, err := s.store.ListTracks(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, tracks)
	case http.MethodDelete:
		ref := r.URL.Query().Get("ref")
		if ref == "" {
			http.Error(w, "ref query param is required", http.StatusBadRequest)
			return
		}
		if err := s.store.DeleteTrack(r.Context(), store.TrackRef(ref)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": ref})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
