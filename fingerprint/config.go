// Package fingerprint implements the fluent command that orchestrates
// framing, banding, grouping, wavelet encoding, and min-hashing into a
// sequence of fingerprints.
package fingerprint

import (
	"fmt"

	"github.com/himanishpuri/echofp/errs"
	"github.com/himanishpuri/echofp/internal/spectral"
	"github.com/himanishpuri/echofp/internal/stride"
)

// Config enumerates every recognized ingest-time option. It is immutable
// once built.
type Config struct {
	SampleRate  int
	FrameSize   int
	Overlap     int
	Rows        int
	Cols        int
	TopWavelets int
	L, K        int
	MinFreq     float64
	MaxFreq     float64
	Stride      stride.Scheduler
	FFTProvider spectral.Provider
	PermSeed    int64
}

// Option mutates a Config under construction.
type Option func(*Config)

func WithSampleRate(rate int) Option     { return func(c *Config) { c.SampleRate = rate } }
func WithFrameSize(n int) Option         { return func(c *Config) { c.FrameSize = n } }
func WithOverlap(n int) Option           { return func(c *Config) { c.Overlap = n } }
func WithImageShape(rows, cols int) Option {
	return func(c *Config) { c.Rows, c.Cols = rows, cols }
}
func WithTopWavelets(n int) Option       { return func(c *Config) { c.TopWavelets = n } }
func WithHashParams(l, k int) Option     { return func(c *Config) { c.L, c.K = l, k } }
func WithFreqRange(min, max float64) Option {
	return func(c *Config) { c.MinFreq, c.MaxFreq = min, max }
}
func WithStride(s stride.Scheduler) Option        { return func(c *Config) { c.Stride = s } }
func WithFFTProvider(p spectral.Provider) Option  { return func(c *Config) { c.FFTProvider = p } }
func WithPermutationSeed(seed int64) Option       { return func(c *Config) { c.PermSeed = seed } }

// DefaultConfig returns the standard fingerprinting parameters: 5512 Hz,
// 2048-sample frames with 64-sample overlap, 128x32 images, top-200
// wavelet coefficients, and 25 hash tables of 4 bytes each.
func DefaultConfig() Config {
	return Config{
		SampleRate:  5512,
		FrameSize:   2048,
		Overlap:     64,
		Rows:        128,
		Cols:        32,
		TopWavelets: 200,
		L:           25,
		K:           4,
		MinFreq:     318,
		MaxFreq:     2000,
		Stride:      stride.Static{Step: 128 * 64},
		FFTProvider: spectral.GoDSPProvider{},
		PermSeed:    42,
	}
}

// validate rejects invalid configurations: top_wavelets must not exceed the
// image's coefficient count, and the hash parameters must fit inside the
// fingerprint's bit budget.
func (c Config) validate() error {
	cells := c.Rows * c.Cols
	if c.TopWavelets > cells {
		return fmt.Errorf("%w: top_wavelets %d exceeds rows*cols %d", errs.ErrInvalidConfig, c.TopWavelets, cells)
	}
	if c.L <= 0 || c.K <= 0 {
		return fmt.Errorf("%w: L and K must be positive, got L=%d K=%d", errs.ErrInvalidConfig, c.L, c.K)
	}
	n := cells * 2
	if c.L*c.K > n {
		return fmt.Errorf("%w: L*K (%d) oversubscribes fingerprint bit entropy (%d)", errs.ErrInvalidConfig, c.L*c.K, n)
	}
	if c.FrameSize <= 0 || c.Overlap <= 0 {
		return fmt.Errorf("%w: frame_size and overlap must be positive", errs.ErrInvalidConfig)
	}
	if c.MinFreq <= 0 || c.MaxFreq <= c.MinFreq {
		return fmt.Errorf("%w: invalid frequency range [%v, %v)", errs.ErrInvalidConfig, c.MinFreq, c.MaxFreq)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive", errs.ErrInvalidConfig)
	}
	if c.Stride == nil {
		return fmt.Errorf("%w: stride scheduler must be set", errs.ErrInvalidConfig)
	}
	if c.FFTProvider == nil {
		return fmt.Errorf("%w: FFT provider must be set", errs.ErrInvalidConfig)
	}
	return nil
}

// BitLength is the fixed size, in bits, of a serialized fingerprint under
// this configuration.
func (c Config) BitLength() int { return 2 * c.Rows * c.Cols }
