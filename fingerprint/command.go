package fingerprint

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/himanishpuri/echofp/audio"
	"github.com/himanishpuri/echofp/errs"
	"github.com/himanishpuri/echofp/internal/bitvec"
	"github.com/himanishpuri/echofp/internal/dsp"
	"github.com/himanishpuri/echofp/internal/image"
	"github.com/himanishpuri/echofp/internal/lsh"
	"github.com/himanishpuri/echofp/internal/stride"
	"github.com/himanishpuri/echofp/internal/wavelet"
)

// Fingerprint is one (bits, hash_keys, start_offset_seconds) triple, the
// unit C7 produces and C8 consumes.
type Fingerprint struct {
	Bits               []byte
	HashKeys           []uint32
	StartOffsetSeconds float64
}

// Command is an immutable, built pipeline instance. It is restartable from
// a new source via Builder, but a single Command's Compute call is not
// rewindable mid-stream.
type Command struct {
	provider      audio.Provider
	source        string
	startSeconds  float64
	lengthSeconds float64
	cfg           Config
}

func (c *Command) Config() Config { return c.cfg }

// Compute runs C1-C5 to completion and returns every fingerprint in
// monotonic start-offset order. Work across images is fanned out to a
// worker pool (C4/C5 are pure functions of one image); ordering is restored
// before return. Cancellation is checked between image groupings and
// discards all partial results rather than returning a prefix.
func (c *Command) Compute(ctx context.Context) ([]Fingerprint, error) {
	samples, err := c.provider.ReadMonoSamples(ctx, c.source, c.cfg.SampleRate, c.startSeconds, c.lengthSeconds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrProviderFailure, err)
	}

	spectra := dsp.Frame(samples, c.cfg.FrameSize, c.cfg.Overlap, c.cfg.FFTProvider)
	if len(spectra) == 0 {
		return nil, nil // InputTooShort: not an error, zero fingerprints.
	}

	bands := dsp.NewBandSchedule(c.cfg.Cols, c.cfg.MinFreq, c.cfg.MaxFreq, c.cfg.SampleRate, c.cfg.FrameSize)
	reduced := make([][]float64, len(spectra))
	for i, spectrum := range spectra {
		reduced[i] = bands.Reduce(spectrum)
	}

	images, offsets := groupByStride(reduced, c.cfg.Rows, c.cfg.Cols, c.cfg.Stride, c.cfg.Overlap, c.cfg.SampleRate)
	if len(images) == 0 {
		return nil, nil
	}

	table := lsh.Build(c.cfg.BitLength(), c.cfg.L, c.cfg.K, c.cfg.PermSeed)

	results := make([]Fingerprint, len(images))
	group, gctx := errgroup.WithContext(ctx)

	for i, img := range images {
		i, img := i, img
		if gctx.Err() != nil {
			break // cooperative cancellation at an image-grouping boundary
		}
		group.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			signs := wavelet.TopSigns(wavelet.Decompose(img), c.cfg.TopWavelets)
			bits := bitvec.Encode(signs)
			results[i] = Fingerprint{
				Bits:               bits,
				HashKeys:           table.Encode(bits),
				StartOffsetSeconds: offsets[i],
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err // cancellation or a worker error; discard partial results
	}
	if err := ctx.Err(); err != nil {
		return nil, err // cancelled before every image was dispatched
	}
	return results, nil
}

// groupByStride buffers reduced frames into images, advancing by whatever
// the stride scheduler yields at each step, translated to frame-grouper
// granularity.
func groupByStride(reduced [][]float64, rows, cols int, sched stride.Scheduler, hopSamples, sampleRate int) ([]image.Image, []float64) {
	images := make([]image.Image, 0)
	offsets := make([]float64, 0)

	start := 0
	for start+rows <= len(reduced) {
		images = append(images, image.New(reduced, start, rows, cols))
		offsets = append(offsets, float64(start*hopSamples)/float64(sampleRate))

		step := sched.Next()
		start += stride.ToFrames(step, hopSamples)
	}
	return images, offsets
}
