// Command echofp is a thin CLI wrapper around the fingerprint/query/store
// packages: ingest a file into a corpus, or query a sample against one.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/himanishpuri/echofp/audio"
	"github.com/himanishpuri/echofp/fingerprint"
	"github.com/himanishpuri/echofp/internal/logging"
	"github.com/himanishpuri/echofp/internal/spectral"
	"github.com/himanishpuri/echofp/internal/stride"
	"github.com/himanishpuri/echofp/query"
	"github.com/himanishpuri/echofp/store"
)

// incrementalStride is the query-time default: examine every achievable
// starting offset rather than the ingest-time static stride, favoring
// recognition robustness over compute cost.
func incrementalStride() stride.Scheduler { return stride.Incremental{} }

var log = logging.Default()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "ingest":
		err = runIngest(os.Args[2:])
	case "ingest-dir":
		err = runIngestDir(os.Args[2:])
	case "query":
		err = runQuery(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "delete":
		err = runDelete(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`echofp - audio fingerprinting and recognition

Usage:
  echofp ingest <audio> --meta <json> [--db path]
  echofp ingest-dir <folder> [--ext .mp3,.wav] [--db path]
  echofp query <audio> [--seconds N] [--start S] [--db path]
  echofp list [--db path]
  echofp delete <track-ref> [--db path]
  echofp bench <audio>`)
}

func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", envOr("ECHOFP_DB_PATH", "echofp.sqlite3"), "path to the SQLite database file")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore(path string) (store.Store, error) {
	return store.NewSQLiteStore(path)
}

type ingestMeta struct {
	ExternalID  string  `json:"external_id"`
	Artist      string  `json:"artist"`
	Title       string  `json:"title"`
	Album       string  `json:"album"`
	ReleaseYear int     `json:"release_year"`
}

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	dbPath := dbFlag(fs)
	metaJSON := fs.String("meta", "{}", "JSON track metadata")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("ingest requires an audio path")
	}
	source := fs.Arg(0)

	var meta ingestMeta
	if err := json.Unmarshal([]byte(*metaJSON), &meta); err != nil {
		return fmt.Errorf("invalid --meta json: %w", err)
	}

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := fingerprint.DefaultConfig()
	if err := checkSchema(s, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := audio.NewFFmpegProvider(os.TempDir())
	cmd, err := fingerprint.NewBuilder(provider).From(source).Build()
	if err != nil {
		return err
	}

	fps, err := cmd.Compute(ctx)
	if err != nil {
		return err
	}
	if len(fps) == 0 {
		log.Warnf("audio too short to produce any fingerprints: %s", source)
		return nil
	}

	trackRef, err := s.InsertTrack(ctx, store.TrackMetadata{
		ExternalID:  meta.ExternalID,
		Artist:      meta.Artist,
		Title:       meta.Title,
		Album:       meta.Album,
		ReleaseYear: meta.ReleaseYear,
	})
	if err != nil {
		return err
	}

	entries := make([]store.SubFingerprint, len(fps))
	for i, fp := range fps {
		entries[i] = store.SubFingerprint{StartOffsetSeconds: fp.StartOffsetSeconds, Bits: fp.Bits, HashKeys: fp.HashKeys}
	}
	if err := s.InsertSubfingerprints(ctx, trackRef, entries); err != nil {
		return err
	}

	log.Infof("ingested %s as %s (%d fingerprints)", source, trackRef, len(fps))
	return nil
}

// runIngestDir walks a folder of audio files and ingests each one, reporting
// progress on a bar the way the corpus's batch indexers do for long-running
// directory scans.
func runIngestDir(args []string) error {
	fs := flag.NewFlagSet("ingest-dir", flag.ExitOnError)
	dbPath := dbFlag(fs)
	exts := fs.String("ext", ".mp3,.wav,.flac,.m4a", "comma-separated list of file extensions to ingest")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("ingest-dir requires a folder path")
	}
	root := fs.Arg(0)

	wanted := map[string]bool{}
	for _, e := range strings.Split(*exts, ",") {
		wanted[strings.ToLower(strings.TrimSpace(e))] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	if len(files) == 0 {
		log.Warnf("no matching audio files under %s", root)
		return nil
	}

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := fingerprint.DefaultConfig()
	if err := checkSchema(s, cfg); err != nil {
		return err
	}

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(int64(len(files)),
		mpb.PrependDecorators(
			decor.Name("ingesting: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	provider := audio.NewFFmpegProvider(os.TempDir())
	var failed int
	for _, path := range files {
		if err := ingestOne(provider, s, cfg, path); err != nil {
			log.Warnf("skipping %s: %v", path, err)
			failed++
		}
		bar.Increment()
	}
	progress.Wait()

	log.Infof("ingested %d/%d files from %s", len(files)-failed, len(files), root)
	return nil
}

func ingestOne(provider audio.Provider, s store.Store, cfg fingerprint.Config, source string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cmd, err := fingerprint.NewBuilder(provider).From(source).WithOptions(func(c *fingerprint.Config) { *c = cfg }).Build()
	if err != nil {
		return err
	}
	fps, err := cmd.Compute(ctx)
	if err != nil {
		return err
	}
	if len(fps) == 0 {
		return nil
	}

	trackRef, err := s.InsertTrack(ctx, store.TrackMetadata{Title: filepath.Base(source)})
	if err != nil {
		return err
	}
	entries := make([]store.SubFingerprint, len(fps))
	for i, fp := range fps {
		entries[i] = store.SubFingerprint{StartOffsetSeconds: fp.StartOffsetSeconds, Bits: fp.Bits, HashKeys: fp.HashKeys}
	}
	return s.InsertSubfingerprints(ctx, trackRef, entries)
}

// runBench cross-checks the two FFT backends by computing fingerprints for
// the same source under each and reporting wall time and how many
// fingerprints agree bit-for-bit, the way the corpus's accuracy-comparison
// scripts weigh one transform implementation against another.
func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("bench requires an audio path")
	}
	source := fs.Arg(0)

	provider := audio.NewFFmpegProvider(os.TempDir())
	backends := []struct {
		name string
		fft  spectral.Provider
	}{
		{"go-dsp", spectral.GoDSPProvider{}},
		{"gonum", spectral.GonumProvider{}},
	}

	results := make([][]fingerprint.Fingerprint, len(backends))
	for i, b := range backends {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		start := time.Now()
		cmd, err := fingerprint.NewBuilder(provider).
			From(source).
			WithOptions(fingerprint.WithFFTProvider(b.fft)).
			Build()
		if err != nil {
			cancel()
			return err
		}
		fps, err := cmd.Compute(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		results[i] = fps
		fmt.Printf("%-8s %6d fingerprints in %v\n", b.name, len(fps), time.Since(start).Round(time.Millisecond))
	}

	agree := 0
	n := min(len(results[0]), len(results[1]))
	for i := 0; i < n; i++ {
		if bytesEqual(results[0][i].Bits, results[1][i].Bits) {
			agree++
		}
	}
	if n > 0 {
		fmt.Printf("bit-exact agreement: %d/%d (%.1f%%)\n", agree, n, 100*float64(agree)/float64(n))
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	dbPath := dbFlag(fs)
	seconds := fs.Float64("seconds", 0, "length of the sample to read, in seconds (0 = whole file)")
	start := fs.Float64("start", 0, "start offset into the source, in seconds")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("query requires an audio path")
	}
	source := fs.Arg(0)

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := fingerprint.DefaultConfig()
	if err := checkSchema(s, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := audio.NewFFmpegProvider(os.TempDir())
	cmd, err := fingerprint.NewBuilder(provider).
		From(source).
		WithStart(*start).
		WithLength(*seconds).
		WithOptions(fingerprint.WithStride(incrementalStride())).
		Build()
	if err != nil {
		return err
	}

	fps, err := cmd.Compute(ctx)
	if err != nil {
		return err
	}

	engine := query.NewEngine(s, cfg.BitLength(), query.DefaultConfig())
	outcome, err := engine.Query(ctx, fps)
	if err != nil {
		return err
	}

	if !outcome.IsSuccessful {
		fmt.Println("no match")
		os.Exit(1)
	}

	track, err := s.ReadTrack(ctx, outcome.BestMatch.Track)
	if err != nil {
		return err
	}
	fmt.Printf("match: %s - %s (score=%.2f matched_fps=%d confidence=%.1f%%)\n",
		track.Artist, track.Title, outcome.BestMatch.Score, outcome.BestMatch.MatchedFps, outcome.BestMatch.Confidence)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath := dbFlag(fs)
	fs.Parse(args)

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	tracks, err := s.ListTracks(context.Background())
	if err != nil {
		return err
	}
	for _, t := range tracks {
		fmt.Printf("%s - %s (%s)\n", t.Artist, t.Title, t.ExternalID)
	}
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dbPath := dbFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("delete requires a track reference")
	}

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.DeleteTrack(context.Background(), store.TrackRef(fs.Arg(0)))
}

func checkSchema(s store.Store, cfg fingerprint.Config) error {
	id := store.SchemaID(cfg.Rows, cfg.Cols, cfg.L, cfg.K, cfg.PermSeed, cfg.TopWavelets)
	return store.CheckSchema(context.Background(), s, id)
}
