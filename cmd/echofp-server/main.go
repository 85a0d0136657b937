// Command echofp-server exposes the recognition engine over a small JSON
// API: health check, ingest, query, and track listing.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/himanishpuri/echofp/audio"
	"github.com/himanishpuri/echofp/fingerprint"
	"github.com/himanishpuri/echofp/internal/logging"
	"github.com/himanishpuri/echofp/store"
)

type Config struct {
	Port           int
	DBPath         string
	AllowedOrigins []string
}

type Server struct {
	config   Config
	store    store.Store
	log      *logging.Logger
	provider audio.Provider
	fpConfig fingerprint.Config
}

func main() {
	log := logging.Default()

	cfg := Config{
		Port:           8080,
		DBPath:         envOr("ECHOFP_DB_PATH", "echofp.sqlite3"),
		AllowedOrigins: []string{"*"},
	}
	if p := os.Getenv("ECHOFP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &cfg.Port)
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Errorf("open store: %v", err)
		os.Exit(1)
	}
	defer s.Close()

	fpConfig := fingerprint.DefaultConfig()
	schemaID := store.SchemaID(fpConfig.Rows, fpConfig.Cols, fpConfig.L, fpConfig.K, fpConfig.PermSeed, fpConfig.TopWavelets)
	if err := store.CheckSchema(context.Background(), s, schemaID); err != nil {
		log.Errorf("schema check: %v", err)
		os.Exit(1)
	}

	srv := &Server{
		config:   cfg,
		store:    s,
		log:      log,
		provider: audio.NewFFmpegProvider(os.TempDir()),
		fpConfig: fpConfig,
	}

	log.Infof("echofp-server starting on :%d (db=%s)", cfg.Port, cfg.DBPath)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), srv.routes()); err != nil {
		log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
