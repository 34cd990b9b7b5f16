package classify

import (
	"math"
	"slices"
	"sort"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

func equalInterval(fc *fitContext, s EqualInterval) (*partition, error) {
	if err := preprocessing.CheckK(s.K, fc.n()); err != nil {
		return nil, err
	}
	lo, hi := fc.sorted[0], fc.max()
	if s.K == 1 {
		return &partition{bins: []float64{hi}}, nil
	}
	if hi == lo {
		return nil, errors.NewValidationError("y", "all values are equal, the range cannot be divided", hi)
	}
	width := (hi - lo) / float64(s.K)
	bins := make([]float64, s.K)
	for i := range bins {
		bins[i] = lo + float64(i+1)*width
	}
	bins[s.K-1] = hi
	return &partition{bins: bins}, nil
}

func quantiles(fc *fitContext, s Quantiles) (*partition, error) {
	if err := preprocessing.CheckK(s.K, fc.n()); err != nil {
		return nil, err
	}
	bins := preprocessing.QuantileEdges(fc.sorted, s.K)
	if len(bins) < s.K {
		errors.Warn(errors.NewClassCountWarning(MethodQuantiles.String(), s.K, len(bins), "duplicate quantile edges dropped"))
	}
	return &partition{bins: bins}, nil
}

func percentiles(fc *fitContext, s Percentiles) (*partition, error) {
	pct := s.Pct
	if len(pct) == 0 {
		pct = defaultPercentiles
	}
	if err := errors.CheckFinite("pct", pct); err != nil {
		return nil, err
	}
	for i, p := range pct {
		if p < 0 || p > 100 {
			return nil, errors.NewValidationError("pct", "must lie in [0, 100]", p)
		}
		if i > 0 && p <= pct[i-1] {
			return nil, errors.NewValidationError("pct", "must be strictly increasing", pct)
		}
	}
	// 補間の結果、隣接するパーセンタイルが同じ値になることがある
	bins := preprocessing.Percentiles(fc.sorted, pct)
	if err := checkDerivedK(fc, bins); err != nil {
		return nil, err
	}
	return &partition{bins: bins}, nil
}

func boxPlot(fc *fitContext, s BoxPlot) (*partition, error) {
	if err := errors.CheckScalar("hinge", s.Hinge); err != nil {
		return nil, err
	}
	if s.Hinge < 0 {
		return nil, errors.NewValidationError("hinge", "must be non-negative", s.Hinge)
	}
	q := preprocessing.Percentiles(fc.sorted, []float64{25, 50, 75, 100})
	pivot := s.Hinge * (q[2] - q[0])
	left, right := q[0]-pivot, q[2]+pivot

	bins := []float64{left, q[0], q[1], q[2]}
	if right < q[3] {
		bins = append(bins, right, q[3])
	} else {
		bins = append(bins, right)
	}
	if err := checkDerivedK(fc, bins); err != nil {
		return nil, err
	}
	return &partition{bins: bins}, nil
}

func stdMean(fc *fitContext, s StdMean) (*partition, error) {
	multiples := s.Multiples
	if len(multiples) == 0 {
		multiples = defaultMultiples
	}
	if err := errors.CheckFinite("multiples", multiples); err != nil {
		return nil, err
	}
	if !isStrictlyIncreasing(multiples) {
		return nil, errors.NewValidationError("multiples", "must be strictly increasing", multiples)
	}
	sum := preprocessing.Describe(fc.y)
	bins := make([]float64, len(multiples))
	for i, m := range multiples {
		bins[i] = sum.Mean + m*sum.Std
	}
	if err := checkDerivedK(fc, bins); err != nil {
		return nil, err
	}
	return &partition{bins: bins}, nil
}

func maximumBreaks(fc *fitContext, s MaximumBreaks) (*partition, error) {
	if err := preprocessing.CheckK(s.K, fc.n()); err != nil {
		return nil, err
	}
	if err := errors.CheckScalar("mindiff", s.MinDiff); err != nil {
		return nil, err
	}
	if s.MinDiff < 0 {
		return nil, errors.NewValidationError("mindiff", "must be non-negative", s.MinDiff)
	}

	xs := fc.sorted
	gaps := make([]int, 0, len(xs))
	for i := 0; i+1 < len(xs); i++ {
		if xs[i+1]-xs[i] > s.MinDiff {
			gaps = append(gaps, i)
		}
	}
	// 差の大きい順、同じ差なら小さい添字を優先
	sort.SliceStable(gaps, func(a, b int) bool {
		return xs[gaps[a]+1]-xs[gaps[a]] > xs[gaps[b]+1]-xs[gaps[b]]
	})

	want := s.K - 1
	if len(gaps) < want {
		errors.Warn(errors.NewClassCountWarning(MethodMaximumBreaks.String(), s.K, len(gaps)+1, "not enough gaps larger than mindiff"))
		want = len(gaps)
	}
	bins := make([]float64, 0, want+1)
	for _, g := range gaps[:want] {
		bins = append(bins, (xs[g]+xs[g+1])/2)
	}
	bins = append(bins, fc.max())
	slices.Sort(bins)
	return &partition{bins: bins}, nil
}

func userDefined(_ *fitContext, s UserDefined) (*partition, error) {
	if err := preprocessing.CheckEdges("bins", s.Bins); err != nil {
		return nil, err
	}
	if s.Lowest != nil {
		if err := errors.CheckScalar("lowest", *s.Lowest); err != nil {
			return nil, err
		}
	}
	return &partition{bins: slices.Clone(s.Bins)}, nil
}

// checkDerivedK はオプションから決まるクラス数（最大値の追加を含む）が観測数を超えないことを確認します。
func checkDerivedK(fc *fitContext, bins []float64) error {
	k := len(bins)
	if bins[k-1] < fc.max() {
		k++
	}
	return preprocessing.CheckK(k, fc.n())
}

func isStrictlyIncreasing(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if !(v[i] > v[i-1]) || math.IsNaN(v[i]) {
			return false
		}
	}
	return true
}
