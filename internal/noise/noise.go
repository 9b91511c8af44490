// Package noise provides the seeded coherent noise used for column heights.
package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is a deterministic 2D simplex noise source. It holds no mutable
// state after construction, so samples depend only on the seed and input.
type Field struct {
	seed int64
	src  opensimplex.Noise
}

func New(seed int64) *Field {
	return &Field{seed: seed, src: opensimplex.New(seed)}
}

func (f *Field) Seed() int64 {
	return f.seed
}

// Sample returns the noise value at (x, z) in [-1, 1].
func (f *Field) Sample(x, z float64) float64 {
	return clamp(f.src.Eval2(x, z), -1, 1)
}

// Normalize maps a sample from [-1, 1] to [0, 1].
func Normalize(v float64) float64 {
	return clamp((v+1)/2, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
