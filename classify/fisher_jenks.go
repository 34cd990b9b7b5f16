package classify

import (
	"math"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/pkg/log"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

func fisherJenks(fc *fitContext, s FisherJenks) (*partition, error) {
	if err := preprocessing.CheckK(s.K, fc.n()); err != nil {
		return nil, err
	}
	if u := preprocessing.CountUnique(fc.sorted); u < s.K {
		return nil, errors.NewValidationError("k", "exceeds the number of unique values", map[string]int{"k": s.K, "unique": u})
	}
	return &partition{bins: fisherJenksBreaks(fc.sorted, s.K)}, nil
}

func fisherJenksSampled(fc *fitContext, s FisherJenksSampled) (*partition, error) {
	n := fc.n()
	if err := preprocessing.CheckK(s.K, n); err != nil {
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
	if u := preprocessing.CountUnique(fc.sorted); u < s.K {
		return nil, errors.NewValidationError("k", "exceeds the number of unique values", map[string]int{"k": s.K, "unique": u})
	}

	// 最小値と最大値の両方が入るよう、サンプルは2個以上にする
	size := preprocessing.SampleSize(n, pct, s.Truncate, DefaultSampleLimit, max(s.K, 2))
	sample := preprocessing.Subsample(newRand(s.Seed), fc.y, size)
	// 最小値と最大値は必ずサンプルに含める
	sample[len(sample)-1] = fc.max()
	sample[0] = fc.sorted[0]
	sorted := preprocessing.Sorted(sample)

	if preprocessing.CountUnique(sorted) < s.K {
		fc.logger.Debug("sample holds too few distinct values, using the full data",
			log.SamplesKey, size,
			log.RequestedClassesKey, s.K,
		)
		sorted = fc.sorted
	}
	return &partition{bins: fisherJenksBreaks(sorted, s.K)}, nil
}

// fisherJenksBreaks は昇順の値をk個のクラスに分け、クラス内平方和が最小となる
// 分割の各クラスの上端を返します。計算量は O(k·n²)。
func fisherJenksBreaks(values []float64, k int) []float64 {
	n := len(values)
	// lower[l][j]: 先頭l個をj個のクラスに分けたとき、最後のクラスの先頭位置（1始まり）
	// cost[l][j]: そのときのクラス内平方和
	lower := make([][]int, n+1)
	cost := make([][]float64, n+1)
	for i := range lower {
		lower[i] = make([]int, k+1)
		cost[i] = make([]float64, k+1)
	}
	// 値の数がクラス数より少ない組み合わせは実行不能なので無限大のまま残る
	for j := 1; j <= k; j++ {
		lower[1][j] = 1
		for i := 1; i <= n; i++ {
			if i == 1 && j == 1 {
				continue
			}
			cost[i][j] = math.Inf(1)
		}
	}

	for l := 2; l <= n; l++ {
		var sum, sumSq, w, ss float64
		for m := 1; m <= l; m++ {
			first := l - m + 1
			v := values[first-1]
			sum += v
			sumSq += v * v
			w++
			ss = sumSq - sum*sum/w
			prev := first - 1
			if prev == 0 {
				continue
			}
			for j := 2; j <= k; j++ {
				if c := ss + cost[prev][j-1]; cost[l][j] >= c {
					lower[l][j] = first
					cost[l][j] = c
				}
			}
		}
		lower[l][1] = 1
		cost[l][1] = ss
	}

	bins := make([]float64, k)
	bins[k-1] = values[n-1]
	last := n
	for j := k; j > 1; j-- {
		first := lower[last][j]
		bins[j-2] = values[first-2]
		last = first - 1
	}
	return bins
}
