package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

func appendBatch(batch []float64) func(prev []float64, fitted bool) ([]float64, int, error) {
	return func(prev []float64, fitted bool) ([]float64, int, error) {
		next := append(append([]float64(nil), prev...), batch...)
		return next, len(next), nil
	}
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator[int]()

	// 初回コミット前は未適合
	assert.False(t, acc.IsFitted())
	err := acc.RequireFitted("Session", "FindBin")
	require.Error(t, err)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	got, err := acc.Apply(appendBatch([]float64{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = acc.Apply(appendBatch([]float64{4}))
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	cur, ok := acc.Current()
	assert.True(t, ok)
	assert.Equal(t, 4, cur)
	assert.Equal(t, []float64{1, 2, 3, 4}, acc.Observations())
	assert.Equal(t, 2, acc.Batches())
	assert.NoError(t, acc.RequireFitted("Session", "FindBin"))
}

func TestAccumulatorApplyErrorKeepsState(t *testing.T) {
	acc := NewAccumulator[int]()
	_, err := acc.Apply(appendBatch([]float64{1, 2}))
	require.NoError(t, err)

	_, err = acc.Apply(func(prev []float64, fitted bool) ([]float64, int, error) {
		assert.True(t, fitted)
		return nil, 0, errors.New("refit failed")
	})
	require.Error(t, err)

	assert.Equal(t, []float64{1, 2}, acc.Observations())
	assert.Equal(t, 1, acc.Batches())
	cur, _ := acc.Current()
	assert.Equal(t, 2, cur)
}

func TestAccumulatorObservationsIsCopy(t *testing.T) {
	acc := NewAccumulator[int]()
	_, err := acc.Apply(appendBatch([]float64{1, 2}))
	require.NoError(t, err)

	obs := acc.Observations()
	obs[0] = 100
	assert.Equal(t, []float64{1, 2}, acc.Observations())
}

func TestAccumulatorReset(t *testing.T) {
	acc := NewAccumulator[int]()
	_, _ = acc.Apply(appendBatch([]float64{1}))
	acc.Reset()

	assert.False(t, acc.IsFitted())
	assert.Empty(t, acc.Observations())
	assert.Equal(t, 0, acc.Batches())
}

func TestAccumulatorConcurrentApply(t *testing.T) {
	acc := NewAccumulator[int]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			_, _ = acc.Apply(appendBatch([]float64{v}))
		}(float64(i))
	}
	wg.Wait()

	assert.Len(t, acc.Observations(), 8)
	assert.Equal(t, 8, acc.Batches())
}
