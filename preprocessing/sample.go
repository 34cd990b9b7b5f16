package preprocessing

import (
	"math/rand"
)

// Subsample draws size values from y uniformly with replacement.
func Subsample(rng *rand.Rand, y []float64, size int) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = y[rng.Intn(len(y))]
	}
	return out
}

// SampleSize returns int(n·pct), reduced so that at most limit values are
// drawn when truncate is set and at least minSize (capped at n) are drawn.
func SampleSize(n int, pct float64, truncate bool, limit, minSize int) int {
	if truncate && pct*float64(n) > float64(limit) {
		pct = float64(limit) / float64(n)
	}
	size := int(float64(n) * pct)
	if minSize > n {
		minSize = n
	}
	if size < minSize {
		size = minSize
	}
	return size
}
