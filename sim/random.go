package sim

import (
	"math/rand/v2"
)

// An ExponentialSource produces exponentially distributed draws. The
// scheduler owns one source and every rate event draws from it in
// registration order.
type ExponentialSource interface {
	Exponential(scale float64) float64
}

// SeededSource is an ExponentialSource backed by a seeded PCG generator. Two
// sources created with the same seed produce the same draws.
type SeededSource struct {
	rng *rand.Rand
}

// NewSeededSource creates a SeededSource.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Exponential returns a draw with mean scale.
func (s *SeededSource) Exponential(scale float64) float64 {
	return s.rng.ExpFloat64() * scale
}
