package classify

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

func sumSquares(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	var ss float64
	for _, x := range v {
		ss += (x - mean) * (x - mean)
	}
	return ss
}

// bruteForceSS は全ての連続分割を列挙してクラス内平方和の最小値を求めます。
func bruteForceSS(sorted []float64, k int) float64 {
	n := len(sorted)
	best := math.Inf(1)
	var rec func(start, classes int, acc float64)
	rec = func(start, classes int, acc float64) {
		if classes == 1 {
			best = math.Min(best, acc+sumSquares(sorted[start:]))
			return
		}
		for end := start + 1; end <= n-(classes-1); end++ {
			rec(end, classes-1, acc+sumSquares(sorted[start:end]))
		}
	}
	rec(0, k, 0)
	return best
}

func TestFisherJenksIsOptimal(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		y := uniform(seed, 10)
		sorted := preprocessing.Sorted(y)
		for k := 1; k <= 4; k++ {
			c, err := Fit(y, FisherJenks{K: k})
			require.NoError(t, err)
			assert.Equal(t, k, c.K())
			assert.InDelta(t, bruteForceSS(sorted, k), c.WithinSS(), 1e-6, "seed %d k %d", seed, k)
		}
	}
}

func TestFisherJenksClusters(t *testing.T) {
	c, err := Fit(clusters, FisherJenks{K: 3})
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 12, 22}, c.Bins())
	assert.Equal(t, []int{3, 3, 3}, c.Counts())
	assert.InDelta(t, 6.0, c.ADCM(), 1e-12)
	assert.InDelta(t, 1-6.0/59.0, c.GADF(), 1e-12)
}

func TestFisherJenksSampled(t *testing.T) {
	y := skewed(4, 3000)

	a, err := Fit(y, FisherJenksSampled{K: 5, Pct: 0.2, Truncate: true, Seed: 8})
	require.NoError(t, err)
	b, err := Fit(y, FisherJenksSampled{K: 5, Pct: 0.2, Truncate: true, Seed: 8})
	require.NoError(t, err)

	assertInvariants(t, a, y)
	assert.Equal(t, a.Bins(), b.Bins(), "same seed must give the same bins")
	assert.Equal(t, 5, a.K())
}

func TestFisherJenksSampledSmallInput(t *testing.T) {
	// サンプル比率が1を超えても復元抽出で動く
	y := uniform(2, 10)
	c, err := Fit(y, FisherJenksSampled{K: 3, Pct: 70})
	require.NoError(t, err)
	assertInvariants(t, c, y)
	assert.Equal(t, 3, c.K())
}

func TestFisherJenksSampledSingleClass(t *testing.T) {
	// サンプルが1個だと最大値が最小値で上書きされてしまう
	c, err := Fit([]float64{1, 2, 3, 4, 5}, FisherJenksSampled{K: 1, Pct: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 1, c.K())
	assert.Equal(t, []float64{5}, c.Bins())
}

func TestJenksCaspall(t *testing.T) {
	c, err := Fit(clusters, JenksCaspall{K: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 12, 22}, c.Bins())
	assert.Equal(t, 1, c.Iterations())
}

func TestJenksCaspallMovesValues(t *testing.T) {
	y := []float64{1, 2, 3, 4, 10, 50, 60, 70}
	warnings := captureWarnings(t)

	c, err := Fit(y, JenksCaspall{K: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 70}, c.Bins())
	assert.Equal(t, 2, c.Iterations())
	assert.Empty(t, warnings())

	c, err = Fit(y, JenksCaspall{K: 2, MaxIter: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Iterations())
	require.Len(t, warnings(), 1)
	var w *errors.ConvergenceWarning
	assert.True(t, errors.As(warnings()[0], &w))
}

func TestJenksCaspallSampled(t *testing.T) {
	y := uniform(9, 2000)

	a, err := Fit(y, JenksCaspallSampled{K: 4, Seed: 1})
	require.NoError(t, err)
	b, err := Fit(y, JenksCaspallSampled{K: 4, Seed: 1})
	require.NoError(t, err)

	assertInvariants(t, a, y)
	assert.Equal(t, a.Bins(), b.Bins())
}

func TestJenksCaspallForced(t *testing.T) {
	c, err := Fit([]float64{101, 1, 2, 100, 3, 4}, JenksCaspallForced{K: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 101}, c.Bins())
	assert.Equal(t, []int{4, 2}, c.Counts())
}

func TestJenksCaspallForcedKeepsClassesNonEmpty(t *testing.T) {
	y := skewed(13, 80)
	c, err := Fit(y, JenksCaspallForced{K: 6})
	require.NoError(t, err)

	assert.Equal(t, 6, c.K())
	for i, n := range c.Counts() {
		assert.Positive(t, n, "class %d", i)
	}
}

func TestNaturalBreaks(t *testing.T) {
	c, err := Fit(clusters, NaturalBreaks{K: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 12, 22}, c.Bins())

	y := skewed(5, 120)
	first, err := Fit(y, NaturalBreaks{K: 5, Seed: 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Fit(y, NaturalBreaks{K: 5, Seed: 2})
		require.NoError(t, err)
		assert.Equal(t, first.K(), again.K())
		assert.Equal(t, first.Bins(), again.Bins())
	}
}

func TestNaturalBreaksFewUniqueValues(t *testing.T) {
	warnings := captureWarnings(t)

	c, err := Fit([]float64{1, 2, 1, 2}, NaturalBreaks{K: 3})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, c.Bins())
	assert.Equal(t, []int{2, 2}, c.Counts())
	require.Len(t, warnings(), 1)
	var w *errors.ClassCountWarning
	assert.True(t, errors.As(warnings()[0], &w))
}

func powerLaw() []float64 {
	y := make([]float64, 0, 999)
	for i := 1; i < 1000; i++ {
		y = append(y, math.Pow(float64(i), -2))
	}
	return y
}

func TestHeadTailBreaks(t *testing.T) {
	tests := []struct {
		name   string
		y      []float64
		counts []int
	}{
		{"power law", powerLaw(), []int{975, 21, 2, 1}},
		{"duplicated max", append(powerLaw(), 1), []int{980, 17, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Fit(tt.y, HeadTailBreaks{})
			require.NoError(t, err)
			assert.Equal(t, 4, c.K())
			assert.Equal(t, tt.counts, c.Counts())
			assertInvariants(t, c, tt.y)
		})
	}
}

func TestHeadTailBreaksConstant(t *testing.T) {
	c, err := Fit([]float64{4, 4, 4}, HeadTailBreaks{})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, c.Bins())
}

func TestMaxP(t *testing.T) {
	c, err := Fit([]float64{1, 2, 3, 4, 100, 101}, MaxP{K: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 101}, c.Bins())
}

func TestMaxPFloorFallback(t *testing.T) {
	// 領域成長ではどの順序でも下限を満たせず、下限を満たす貪欲な分割から出発する
	c, err := Fit([]float64{1, 2, 3, 4, 100, 101}, MaxP{K: 3, Floor: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 101}, c.Bins())
	assert.Equal(t, []int{2, 2, 2}, c.Counts())
}

func TestMaxPRespectsFloor(t *testing.T) {
	y := uniform(5, 60)

	a, err := Fit(y, MaxP{K: 4, Floor: 10, Initial: 100, Seed: 3})
	require.NoError(t, err)
	b, err := Fit(y, MaxP{K: 4, Floor: 10, Initial: 100, Seed: 3})
	require.NoError(t, err)

	assert.Equal(t, a.Bins(), b.Bins())
	for i, n := range a.Counts() {
		assert.GreaterOrEqual(t, n, 10, "class %d", i)
	}
}

// tied は同じ値が長く続くデータです。
var tied = []float64{3, 0, 5, 1, 0, 2, 3, 5, 1, 4, 0, 2, 3, 5, 0, 1, 2, 4, 3, 5}

func TestTiedValuesKeepClassSizes(t *testing.T) {
	tests := []struct {
		name   string
		y      []float64
		scheme Scheme
		k      int
		floor  int
	}{
		{"forced", tied, JenksCaspallForced{K: 4}, 4, 1},
		{"forced all unique values", tied, JenksCaspallForced{K: 6}, 6, 1},
		{"forced short runs", []float64{1, 1, 1, 2, 2, 3, 3, 3, 4}, JenksCaspallForced{K: 3}, 3, 1},
		{"maxp", tied, MaxP{K: 4, Floor: 3, Initial: 50, Seed: 1}, 4, 3},
		{"maxp floor 4", tied, MaxP{K: 3, Floor: 4, Initial: 50, Seed: 2}, 3, 4},
		{"maxp single value runs", tied, MaxP{K: 6, Initial: 20}, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Fit(tt.y, tt.scheme)
			require.NoError(t, err)
			assertInvariants(t, c, tt.y)

			assert.Equal(t, tt.k, c.K(), "bins %v", c.Bins())
			for i, n := range c.Counts() {
				assert.GreaterOrEqual(t, n, tt.floor, "class %d of %v", i, c.Counts())
			}
			// 同じ値が2つのクラスにまたがると境界が重複する
			assert.Len(t, preprocessing.Unique(c.Bins()), c.K())
		})
	}
}

func TestJenksCaspallTiedValues(t *testing.T) {
	c, err := Fit(tied, JenksCaspall{K: 4, Seed: 3})
	require.NoError(t, err)
	assertInvariants(t, c, tied)

	assert.LessOrEqual(t, c.K(), 4)
	assert.Len(t, preprocessing.Unique(c.Bins()), c.K())
	for i, n := range c.Counts() {
		assert.Positive(t, n, "class %d", i)
	}
}

func TestMaxPFloorOnRandomTiedData(t *testing.T) {
	const k, floor = 4, 3
	fitted := 0
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		y := make([]float64, 30)
		for i := range y {
			y[i] = float64(rng.Intn(6))
		}

		c, err := Fit(y, MaxP{K: k, Floor: floor, Initial: 50, Seed: seed})
		if err != nil {
			// 値の並びで下限を満たせないデータは引数エラーになる
			assert.True(t, errors.IsInvalidArgument(err), "seed %d: %v", seed, err)
			continue
		}
		fitted++
		require.Equal(t, k, c.K(), "seed %d: bins %v", seed, c.Bins())
		for i, n := range c.Counts() {
			assert.GreaterOrEqual(t, n, floor, "seed %d class %d: counts %v", seed, i, c.Counts())
		}
	}
	assert.Positive(t, fitted)
}

func TestNaturalBreaksScoreRejectsBrokenRun(t *testing.T) {
	// ラベルがクラス数の範囲外ならADCMは計算できない
	assert.True(t, math.IsInf(adcmScore([]float64{1, 2}, []int{0, 5}, 2), 1))
	assert.Equal(t, 1.0, adcmScore([]float64{1, 2, 10}, []int{0, 0, 1}, 2))
}
