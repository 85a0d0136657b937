// Package audio implements the audio provider contract: reading a mono
// sample sequence at a canonical rate from an arbitrary source, and probing
// source metadata. Decoding and resampling live here so the fingerprint
// pipeline stays a pure function of already-canonical samples.
package audio

import "context"

// Provider reads mono PCM samples from source at exactly sampleRate,
// starting startSeconds into the source and covering lengthSeconds (0 means
// "to the end"). Resampling is the provider's responsibility; the returned
// samples are always at sampleRate.
type Provider interface {
	ReadMonoSamples(ctx context.Context, source string, sampleRate int, startSeconds, lengthSeconds float64) ([]float32, error)
}
