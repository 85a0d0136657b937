// Package query implements the recognition engine: candidate gathering
// against the model store, Hamming-similarity verification, and
// track-level vote aggregation and ranking.
package query

// Config enumerates the query-time matching thresholds, independent of the
// ingest-time Config used to build fingerprints.
type Config struct {
	MinHitsPerFp   int
	MinSimilarity  float64
	ThresholdVotes int
}

func DefaultConfig() Config {
	return Config{
		MinHitsPerFp:   5,
		MinSimilarity:  0.5,
		ThresholdVotes: 5,
	}
}

type Option func(*Config)

func WithMinHitsPerFp(n int) Option      { return func(c *Config) { c.MinHitsPerFp = n } }
func WithMinSimilarity(v float64) Option { return func(c *Config) { c.MinSimilarity = v } }
func WithThresholdVotes(n int) Option    { return func(c *Config) { c.ThresholdVotes = n } }
