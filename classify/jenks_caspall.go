package classify

import (
	"math"
	"math/rand"
	"slices"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

func jenksCaspall(fc *fitContext, s JenksCaspall) (*partition, error) {
	if err := preprocessing.CheckK(s.K, fc.n()); err != nil {
		return nil, err
	}
	maxIter, err := iterLimit(s.MaxIter, DefaultJenksMaxIter)
	if err != nil {
		return nil, err
	}
	bins, it := jenksCaspallBins(MethodJenksCaspall.String(), fc.sorted, s.K, maxIter, newRand(s.Seed))
	return &partition{bins: bins, iterations: it}, nil
}

func jenksCaspallSampled(fc *fitContext, s JenksCaspallSampled) (*partition, error) {
	n := fc.n()
	if err := preprocessing.CheckK(s.K, n); err != nil {
		return nil, err
	}
	maxIter, err := iterLimit(s.MaxIter, DefaultJenksMaxIter)
	if err != nil {
		return nil, err
	}
	pct := s.Pct
	if pct == 0 {
		pct = DefaultSamplePct
	}
	if err := errors.CheckScalar("pct", pct); err != nil {
		return nil, err
	}
	if pct < 0 {
		return nil, errors.NewValidationError("pct", "must be positive", pct)
	}

	rng := newRand(s.Seed)
	size := preprocessing.SampleSize(n, pct, true, DefaultSampleLimit, s.K)
	sample := preprocessing.Subsample(rng, fc.y, size)
	// 最大値を含めないと最上位クラスの上端が最大値より小さくなる
	sample[0] = fc.max()

	bins, it := jenksCaspallBins(MethodJenksCaspallSampled.String(), preprocessing.Sorted(sample), s.K, maxIter, rng)
	return &partition{bins: bins, iterations: it}, nil
}

// jenksCaspallBins は分位点分割から出発し、各値を最も近いクラス中央値へ移す操作を
// 割り当てが変化しなくなるまで繰り返します。返り値は各クラスの最大値と反復回数です。
func jenksCaspallBins(name string, sorted []float64, k, maxIter int, rng *rand.Rand) ([]float64, int) {
	q := preprocessing.QuantileEdges(sorted, k)
	if len(q) < k {
		errors.Warn(errors.NewClassCountWarning(name, k, len(q), "duplicate quantile edges dropped"))
	}
	labels := findBin(q, sorted)
	nc := len(q)

	converged := false
	it := 0
	for it < maxIter {
		it++
		medians := classMedians(sorted, labels, nc)
		next := make([]int, len(sorted))
		changed := false
		for i, v := range sorted {
			next[i] = nearestMedian(v, labels[i], medians, rng)
			if next[i] != labels[i] {
				changed = true
			}
		}
		labels = next
		if !changed {
			converged = true
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning(name, it, "class assignments still changing"))
	}

	maxima := make([]float64, nc)
	seen := make([]bool, nc)
	for i, v := range sorted {
		c := labels[i]
		if !seen[c] || v > maxima[c] {
			maxima[c] = v
			seen[c] = true
		}
	}
	bins := make([]float64, 0, nc)
	for c := range maxima {
		if seen[c] {
			bins = append(bins, maxima[c])
		}
	}
	slices.Sort(bins)
	return preprocessing.Unique(bins), it
}

// classMedians は各クラスの中央値を返します。空のクラスはNaNです。
func classMedians(sorted []float64, labels []int, k int) []float64 {
	members := make([][]float64, k)
	for i, v := range sorted {
		members[labels[i]] = append(members[labels[i]], v)
	}
	medians := make([]float64, k)
	for c, m := range members {
		if len(m) == 0 {
			medians[c] = math.NaN()
			continue
		}
		medians[c] = preprocessing.Median(m)
	}
	return medians
}

// nearestMedian はvに最も近い中央値のクラスを返します。
// 同距離の候補に現在のクラスがあればそれを保ち、なければ乱数で選びます。
func nearestMedian(v float64, current int, medians []float64, rng *rand.Rand) int {
	best := math.Inf(1)
	var ties []int
	for c, m := range medians {
		if math.IsNaN(m) {
			continue
		}
		d := math.Abs(v - m)
		switch {
		case d < best:
			best = d
			ties = append(ties[:0], c)
		case d == best:
			ties = append(ties, c)
		}
	}
	if len(ties) == 1 {
		return ties[0]
	}
	if slices.Contains(ties, current) {
		return current
	}
	return ties[rng.Intn(len(ties))]
}

func jenksCaspallForced(fc *fitContext, s JenksCaspallForced) (*partition, error) {
	n := fc.n()
	if err := preprocessing.CheckK(s.K, n); err != nil {
		return nil, err
	}
	if u := preprocessing.CountUnique(fc.sorted); u < s.K {
		return nil, errors.NewValidationError("k", "exceeds the number of unique values", map[string]int{"k": s.K, "unique": u})
	}
	maxIter, err := iterLimit(s.MaxIter, DefaultJenksMaxIter)
	if err != nil {
		return nil, err
	}

	p := newRankPartition(fc.sorted, s.K)
	it := 0
	converged := false
	for it < maxIter {
		it++
		moved := false
		// 上方向: クラスiの最大値をi+1へ
		for p.improve(func(i int) bool { return p.moveUp(i, 1) }) {
			moved = true
		}
		// 下方向: クラスi+1の最小値をiへ
		for p.improve(func(i int) bool { return p.moveDown(i, 1) }) {
			moved = true
		}
		if !moved {
			converged = true
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning(MethodJenksCaspallForced.String(), it, "boundary moves still reduce the within-class sum of squares"))
	}
	return &partition{bins: p.upperEdges(), iterations: it}, nil
}

// iterLimit は0を既定値に読み替え、負の値を拒否します。
func iterLimit(v, def int) (int, error) {
	switch {
	case v == 0:
		return def, nil
	case v < 0:
		return 0, errors.NewValidationError("maxiter", "must be positive", v)
	}
	return v, nil
}
