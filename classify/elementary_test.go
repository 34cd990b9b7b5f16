package classify

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

func TestQuantiles(t *testing.T) {
	tests := []struct {
		name string
		k    int
		want []float64
	}{
		{"k3", 3, []float64{333, 666, 999}},
		{"k4", 4, []float64{249.75, 499.5, 749.25, 999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Fit(arange(1000), Quantiles{K: tt.k})
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, c.Bins(), 1e-9)
			assert.Equal(t, tt.k, c.K())
		})
	}
}

func TestQuantilesDuplicateEdges(t *testing.T) {
	warnings := captureWarnings(t)
	y := []float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 3}

	c, err := Fit(y, Quantiles{K: 5})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1, 1.2, 3}, c.Bins(), 1e-9)
	assert.Equal(t, []int{8, 0, 2}, c.Counts())
	require.Len(t, warnings(), 1)

	var w *errors.ClassCountWarning
	require.True(t, errors.As(warnings()[0], &w))
	assert.Equal(t, 5, w.Requested)
	assert.Equal(t, 3, w.Got)
}

func TestEqualInterval(t *testing.T) {
	c, err := Fit(arange(101), EqualInterval{K: 4})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{25, 50, 75, 100}, c.Bins(), 1e-9)
	assert.Equal(t, []int{26, 25, 25, 25}, c.Counts())
}

func TestEqualIntervalSingleClass(t *testing.T) {
	c, err := Fit([]float64{3, 3, 3}, EqualInterval{K: 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, c.Bins())
	assert.Equal(t, []int{3}, c.Counts())
}

func TestPercentiles(t *testing.T) {
	c, err := Fit(arange(101), Percentiles{})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 10, 50, 90, 99, 100}, c.Bins(), 1e-9)

	c, err = Fit(arange(101), Percentiles{Pct: []float64{25, 50}})
	require.NoError(t, err)
	// 最後のパーセンタイルが最大値未満なら最大値が追加される
	assert.InDeltaSlice(t, []float64{25, 50, 100}, c.Bins(), 1e-9)
}

func TestBoxPlot(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}

	c, err := Fit(y, BoxPlot{Hinge: 1.5})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{-3.5, 3.25, 5.5, 7.75, 14.5, 100}, c.Bins(), 1e-9)
	assert.Equal(t, 6, c.K())
	assert.Equal(t, []int{9}, c.HighOutliers())
	assert.Empty(t, c.LowOutliers())
}

func TestBoxPlotWithoutHighOutliers(t *testing.T) {
	c, err := Fit(arange(20), BoxPlot{Hinge: 1.5})
	require.NoError(t, err)

	// 上側フェンスが最大値以上なら最大値は境界にならない
	assert.Equal(t, 5, c.K())
	assert.InDelta(t, 28.5, c.Bins()[4], 1e-9)
	assert.Nil(t, c.HighOutliers())
}

func TestOutliersOnlyForBoxPlot(t *testing.T) {
	c, err := Fit(arange(20), Quantiles{K: 6})
	require.NoError(t, err)
	assert.Nil(t, c.LowOutliers())
	assert.Nil(t, c.HighOutliers())
}

func TestStdMean(t *testing.T) {
	y := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	std := math.Sqrt(32.0 / 7.0)

	c, err := Fit(y, StdMean{})
	require.NoError(t, err)

	want := []float64{5 - 2*std, 5 - std, 5 + std, 5 + 2*std}
	assert.InDeltaSlice(t, want, c.Bins(), 1e-9)
	assert.Equal(t, []int{0, 1, 6, 1}, c.Counts())
}

func TestStdMeanAppendsMax(t *testing.T) {
	y := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	c, err := Fit(y, StdMean{Multiples: []float64{-1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, c.K())
	assert.Equal(t, 9.0, c.Bins()[2])
}

func TestMaximumBreaks(t *testing.T) {
	y := []float64{30, 1, 2, 12, 3, 10, 11, 31}

	c, err := Fit(y, MaximumBreaks{K: 3})
	require.NoError(t, err)

	if diff := cmp.Diff([]float64{6.5, 21, 31}, c.Bins(), approx); diff != "" {
		t.Errorf("bins mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{3, 3, 2}, c.Counts())
}

func TestMaximumBreaksTooFewGaps(t *testing.T) {
	warnings := captureWarnings(t)

	c, err := Fit([]float64{1, 1, 1, 5}, MaximumBreaks{K: 3})
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 5}, c.Bins())
	assert.Len(t, warnings(), 1)
}

func TestMaximumBreaksMinDiff(t *testing.T) {
	y := []float64{1, 2, 3, 10, 11, 12, 30, 31}

	// 7以下の差は候補にならない
	c, err := Fit(y, MaximumBreaks{K: 3, MinDiff: 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 31}, c.Bins())
}

func TestUserDefined(t *testing.T) {
	y := arange(51)

	c, err := Fit(y, UserDefined{Bins: []float64{20, 40}})
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 40, 50}, c.Bins())
	assert.Equal(t, []int{21, 20, 10}, c.Counts())
	assert.Equal(t, 0.0, c.Lowest())

	lowest := -10.0
	c, err = Fit(y, UserDefined{Bins: []float64{20, 60}, Lowest: &lowest})
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 60}, c.Bins())
	assert.Equal(t, -10.0, c.Lowest())
}
