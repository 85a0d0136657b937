// Package stride implements the three stride strategies that determine the
// starting offsets of successive fingerprint images: static, random, and
// incremental.
package stride

import "math/rand"

// Scheduler yields the sample-count step between the start of one
// fingerprint image and the next. It is stateless between calls except for
// Random's RNG.
type Scheduler interface {
	Next() int
}

// Static returns a fixed step every call.
type Static struct{ Step int }

func (s Static) Next() int { return s.Step }

// Random draws a uniform step in [Min, Max] each call. Seed the RNG for
// reproducible runs.
type Random struct {
	Min, Max int
	rng      *rand.Rand
}

func NewRandom(min, max int, seed int64) *Random {
	return &Random{Min: min, Max: max, rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Next() int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + r.rng.Intn(r.Max-r.Min+1)
}

// Incremental always returns 0: the finest possible step, so every
// achievable starting offset is examined. It is the default stride at query
// time, where robustness is preferred over speed.
type Incremental struct{}

func (Incremental) Next() int { return 0 }

// ToFrames translates a requested sample step into an equivalent number of
// reduced frames to skip at the frame-grouper's granularity. A step of 0
// still advances by one frame: full overlap, not a stall.
func ToFrames(stepSamples, hopSamples int) int {
	if hopSamples <= 0 {
		return 1
	}
	frames := stepSamples / hopSamples
	if frames < 1 {
		frames = 1
	}
	return frames
}
