package dsp

import "math"

// Band is a half-open range of FFT bins, [Lo, Hi).
type Band struct {
	Lo, Hi int
}

// BandSchedule maps a magnitude spectrum onto a fixed grid of logarithmic
// frequency bands. It is built once per configuration and reused for every
// frame.
type BandSchedule struct {
	Bands []Band
}

// NewBandSchedule computes numBands geometrically-spaced bands between
// minFreq and maxFreq (inclusive-exclusive), given the sample rate and FFT
// frame size used to produce spectra. Bins outside [minFreq, maxFreq) are
// discarded; bands do not overlap and together cover the retained range.
func NewBandSchedule(numBands int, minFreq, maxFreq float64, sampleRate, frameSize int) BandSchedule {
	freqToBin := func(f float64) int {
		bin := int(math.Round(f * float64(frameSize) / float64(sampleRate)))
		if bin < 0 {
			bin = 0
		}
		if max := frameSize / 2; bin > max {
			bin = max
		}
		return bin
	}

	ratio := math.Pow(maxFreq/minFreq, 1.0/float64(numBands))
	bands := make([]Band, numBands)
	cursor := minFreq
	for i := 0; i < numBands; i++ {
		next := cursor * ratio
		lo := freqToBin(cursor)
		hi := freqToBin(next)
		if hi <= lo {
			hi = lo + 1
		}
		bands[i] = Band{Lo: lo, Hi: hi}
		cursor = next
	}
	return BandSchedule{Bands: bands}
}

// Reduce collapses one magnitude spectrum into a len(schedule.Bands) vector.
// Each value is the mean magnitude across its band's bins.
func (s BandSchedule) Reduce(spectrum []float64) []float64 {
	out := make([]float64, len(s.Bands))
	for i, b := range s.Bands {
		hi := b.Hi
		if hi > len(spectrum) {
			hi = len(spectrum)
		}
		if b.Lo >= hi {
			continue
		}
		var sum float64
		for _, v := range spectrum[b.Lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-b.Lo)
	}
	return out
}
