package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/go-audio/wav"
)

// FFmpegProvider decodes and resamples via a shelled-out ffmpeg into a
// temporary mono WAV, then reads it back with go-audio/wav. It satisfies
// Provider for any input format ffmpeg understands.
type FFmpegProvider struct {
	TempDir string
	Timeout time.Duration
}

func NewFFmpegProvider(tempDir string) *FFmpegProvider {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegProvider{TempDir: tempDir, Timeout: 30 * time.Second}
}

func (p *FFmpegProvider) ReadMonoSamples(ctx context.Context, source string, sampleRate int, startSeconds, lengthSeconds float64) ([]float32, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	tmp, err := os.CreateTemp(p.TempDir, "echofp-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := []string{"-y", "-v", "quiet"}
	if startSeconds > 0 {
		args = append(args, "-ss", strconv.FormatFloat(startSeconds, 'f', -1, 64))
	}
	args = append(args, "-i", source)
	if lengthSeconds > 0 {
		args = append(args, "-t", strconv.FormatFloat(lengthSeconds, 'f', -1, 64))
	}
	args = append(args, "-ac", "1", "-ar", strconv.Itoa(sampleRate), "-c:a", "pcm_s16le", tmpPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg failed: %w (%s)", err, out)
	}

	return decodeWavFloat32(tmpPath)
}

func decodeWavFloat32(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm buffer: %w", err)
	}

	maxVal := float32(int(1) << (uint(decoder.BitDepth) - 1))
	channels := int(decoder.NumChans)
	samples := make([]float32, 0, len(buf.Data)/channels)

	if channels <= 1 {
		for _, v := range buf.Data {
			samples = append(samples, float32(v)/maxVal)
		}
		return samples, nil
	}

	for i := 0; i+channels <= len(buf.Data); i += channels {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i+c]) / maxVal
		}
		samples = append(samples, sum/float32(channels))
	}
	return samples, nil
}
