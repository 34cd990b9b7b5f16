package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

func TestConfigure(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		opts   []Option
		want   Scheme
	}{
		{"k", Quantiles{K: 5}, []Option{WithK(3)}, Quantiles{K: 3}},
		{"hinge", BoxPlot{Hinge: 1.5}, []Option{WithHinge(3)}, BoxPlot{Hinge: 3}},
		{"sampled", FisherJenksSampled{K: 5}, []Option{WithSamplePct(0.5), WithTruncate(true), WithSeed(4)},
			FisherJenksSampled{K: 5, Pct: 0.5, Truncate: true, Seed: 4}},
		{"maxp", MaxP{K: 5}, []Option{WithFloor(3), WithInitial(20), WithMaxIter(7)},
			MaxP{K: 5, Floor: 3, Initial: 20, MaxIter: 7}},
		{"no options", HeadTailBreaks{}, nil, HeadTailBreaks{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Configure(tt.scheme, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigureCopiesSlices(t *testing.T) {
	bins := []float64{1, 2, 3}
	s, err := Configure(UserDefined{}, WithBins(bins), WithLowest(-1))
	require.NoError(t, err)

	bins[0] = 100
	ud := s.(UserDefined)
	assert.Equal(t, []float64{1, 2, 3}, ud.Bins)
	require.NotNil(t, ud.Lowest)
	assert.Equal(t, -1.0, *ud.Lowest)
}

func TestConfigureRejectsForeignOptions(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		opt    Option
	}{
		{"k on head tail", HeadTailBreaks{}, WithK(3)},
		{"hinge on quantiles", Quantiles{K: 3}, WithHinge(1)},
		{"seed on fisher jenks", FisherJenks{K: 3}, WithSeed(1)},
		{"floor on natural breaks", NaturalBreaks{K: 3}, WithFloor(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Configure(tt.scheme, tt.opt)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
	_, err := Configure(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestDefaultScheme(t *testing.T) {
	for _, m := range Methods() {
		s, err := DefaultScheme(m)
		require.NoError(t, err)
		assert.Equal(t, m, s.Method())
		assert.Equal(t, m.String(), s.Method().String())
	}

	_, err := DefaultScheme(Method(99))
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, "Method(99)", Method(99).String())

	k, ok := KOf(NaturalBreaks{K: 7})
	assert.True(t, ok)
	assert.Equal(t, 7, k)
	_, ok = KOf(Percentiles{})
	assert.False(t, ok)
}
