package preprocessing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

func arange(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"minimum", 0, 1},
		{"maximum", 100, 4},
		{"median interpolated", 50, 2.5},
		{"first quartile", 25, 1.75},
		{"third quartile", 75, 3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 30))
}

func TestQuantileEdges(t *testing.T) {
	y := arange(1000)

	assert.True(t, floats.EqualApprox([]float64{333, 666, 999}, QuantileEdges(y, 3), 1e-9))
	assert.True(t, floats.EqualApprox([]float64{249.75, 499.5, 749.25, 999}, QuantileEdges(y, 4), 1e-9))

	for k := 5; k < 10; k++ {
		assert.Len(t, QuantileEdges(y, k), k)
	}

	// 重複する分位点は1つにまとめられる
	dup := []float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 3}
	assert.True(t, floats.EqualApprox([]float64{1, 1.2, 3}, QuantileEdges(dup, 5), 1e-12))
}

func TestMedianAndUnique(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(Median(nil)))

	assert.Equal(t, []float64{1, 2, 5}, Unique([]float64{1, 1, 2, 5, 5, 5}))
	assert.Nil(t, Unique(nil))
	assert.Equal(t, 3, CountUnique([]float64{5, 1, 5, 2, 1}))
}

func TestSortedDoesNotMutate(t *testing.T) {
	y := []float64{3, 1, 2}
	assert.Equal(t, []float64{1, 2, 3}, Sorted(y))
	assert.Equal(t, []float64{3, 1, 2}, y)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.N)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Std, 1e-12)

	single := Describe([]float64{3})
	assert.Equal(t, 3.0, single.Mean)
	assert.Equal(t, 0.0, single.Std)
}

func TestCheckVector(t *testing.T) {
	tests := []struct {
		name    string
		y       []float64
		wantErr bool
	}{
		{"valid", []float64{1, 2, 3}, false},
		{"empty", nil, true},
		{"nan", []float64{1, math.NaN()}, true},
		{"inf", []float64{math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVector("y", tt.y)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckKAndEdges(t *testing.T) {
	assert.NoError(t, CheckK(3, 3))
	assert.True(t, errors.IsInvalidArgument(CheckK(0, 3)))
	assert.True(t, errors.IsInvalidArgument(CheckK(4, 3)))

	assert.NoError(t, CheckEdges("bins", []float64{1, 2, 3}))
	assert.True(t, errors.IsInvalidArgument(CheckEdges("bins", []float64{1, 1, 3})))
	assert.True(t, errors.IsInvalidArgument(CheckEdges("bins", []float64{3, 2})))
	assert.True(t, errors.IsInvalidArgument(CheckEdges("bins", nil)))
	assert.True(t, errors.IsInvalidArgument(CheckEdges("bins", []float64{1, math.NaN()})))
}

func TestSubsample(t *testing.T) {
	y := arange(100)

	a := Subsample(rand.New(rand.NewSource(7)), y, 30)
	b := Subsample(rand.New(rand.NewSource(7)), y, 30)
	assert.Equal(t, a, b, "same seed gives the same sample")
	assert.Len(t, a, 30)
	for _, v := range a {
		assert.True(t, v >= 0 && v < 100)
	}
}

func TestSampleSize(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pct      float64
		truncate bool
		want     int
	}{
		{"ten percent", 500, 0.1, true, 50},
		{"truncated", 100000, 0.1, true, 1000},
		{"not truncated", 100000, 0.1, false, 10000},
		{"minimum size", 20, 0.1, true, 5},
		{"minimum capped at n", 3, 0.1, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SampleSize(tt.n, tt.pct, tt.truncate, 1000, 5))
		})
	}
}
