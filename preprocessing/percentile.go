package preprocessing

import (
	"math"
	"slices"
)

// Sorted returns an ascending copy of y.
func Sorted(y []float64) []float64 {
	s := slices.Clone(y)
	slices.Sort(s)
	return s
}

// Percentile returns the p-th percentile (0 <= p <= 100) of an ascending
// slice, interpolating linearly between the two nearest ranks at
// position p/100·(n−1).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Percentiles evaluates Percentile for every p in ps.
func Percentiles(sorted []float64, ps []float64) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = Percentile(sorted, p)
	}
	return out
}

// QuantileEdges returns the distinct values among the k empirical quantiles
// at 100·i/k for i = 1..k. Fewer than k edges come back when quantiles
// coincide.
func QuantileEdges(sorted []float64, k int) []float64 {
	w := 100.0 / float64(k)
	q := make([]float64, 0, k)
	for i := 1; i <= k; i++ {
		p := w * float64(i)
		if i == k || p > 100 {
			p = 100
		}
		q = append(q, Percentile(sorted, p))
	}
	return Unique(q)
}

// Median returns the median of y, averaging the middle pair for even n.
// y does not need to be sorted.
func Median(y []float64) float64 {
	if len(y) == 0 {
		return math.NaN()
	}
	if slices.IsSorted(y) {
		return Percentile(y, 50)
	}
	return Percentile(Sorted(y), 50)
}

// Unique returns the distinct values of an ascending slice.
func Unique(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return nil
	}
	out := make([]float64, 0, len(sorted))
	out = append(out, sorted[0])
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// CountUnique returns the number of distinct values in y.
func CountUnique(y []float64) int {
	if slices.IsSorted(y) {
		return len(Unique(y))
	}
	return len(Unique(Sorted(y)))
}
