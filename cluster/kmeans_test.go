package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

func threeGroups() []float64 {
	return []float64{
		1.0, 1.2, 0.9, 1.1,
		10.0, 10.5, 9.8,
		50.0, 51.0, 49.5, 50.2,
	}
}

func TestKMeansSeparatesGroups(t *testing.T) {
	km := NewKMeans(
		WithKMeansNClusters(3),
		WithKMeansNInit(5),
		WithKMeansRandomState(42),
	)
	require.NoError(t, km.Fit(threeGroups()))

	assert.Equal(t, 3, km.K())
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 2, 2, 2, 2}, km.Labels())
	assert.True(t, km.Converged())

	centers := km.Centers()
	assert.InDelta(t, 1.05, centers[0], 1e-9)
	assert.InDelta(t, 10.1, centers[1], 1e-9)
	assert.InDelta(t, 50.175, centers[2], 1e-9)
	assert.InDelta(t, km.Inertia(), km.Score(), 0, "default scorer is inertia")

	labels, err := km.Predict([]float64{0, 12, 100})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, labels)
}

func TestKMeansReproducible(t *testing.T) {
	x := []float64{3, 7, 1, 8, 2, 9, 15, 4, 22, 5, 16, 30}

	fit := func() *KMeans {
		km := NewKMeans(WithKMeansNClusters(4), WithKMeansRandomState(7), WithKMeansNInit(3))
		require.NoError(t, km.Fit(x))
		return km
	}
	a, b := fit(), fit()
	assert.Equal(t, a.Labels(), b.Labels())
	assert.Equal(t, a.Centers(), b.Centers())
}

func TestKMeansDropsEmptyClusters(t *testing.T) {
	// ユニークな値が2つしかないため、3クラスタ目は空になる
	km := NewKMeans(WithKMeansNClusters(3), WithKMeansRandomState(1))
	require.NoError(t, km.Fit([]float64{1, 1, 1, 5, 5}))

	assert.Equal(t, 2, km.K())
	assert.Equal(t, []int{0, 0, 0, 1, 1}, km.Labels())
}

func TestKMeansScorer(t *testing.T) {
	var calls int
	scorer := func(x []float64, labels []int, k int) float64 {
		calls++
		assert.Len(t, labels, len(x))
		return float64(k)
	}
	km := NewKMeans(WithKMeansNClusters(2), WithKMeansNInit(4), WithKMeansScorer(scorer))
	require.NoError(t, km.Fit([]float64{1, 2, 10, 11}))

	assert.Equal(t, 4, calls)
	assert.Equal(t, 2.0, km.Score())
}

func TestKMeansErrors(t *testing.T) {
	km := NewKMeans(WithKMeansNClusters(5))
	err := km.Fit([]float64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = NewKMeans().Predict([]float64{1})
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}
