package classify

import (
	"math"

	"github.com/YuminosukeSato/mapclassify/cluster"
	"github.com/YuminosukeSato/mapclassify/metrics"
	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

func naturalBreaks(fc *fitContext, s NaturalBreaks) (*partition, error) {
	if err := preprocessing.CheckK(s.K, fc.n()); err != nil {
		return nil, err
	}
	initial, err := iterLimit(s.Initial, DefaultNaturalInitial)
	if err != nil {
		return nil, errors.Wrap(err, "initial")
	}
	maxIter, err := iterLimit(s.MaxIter, DefaultKMeansMaxIter)
	if err != nil {
		return nil, err
	}

	name := MethodNaturalBreaks.String()
	uv := preprocessing.Unique(fc.sorted)
	if len(uv) < s.K {
		errors.Warn(errors.NewClassCountWarning(name, s.K, len(uv), "not enough unique values, each unique value forms a class"))
		return &partition{bins: uv}, nil
	}

	km := cluster.NewKMeans(
		cluster.WithKMeansNClusters(s.K),
		cluster.WithKMeansNInit(initial),
		cluster.WithKMeansMaxIter(maxIter),
		cluster.WithKMeansRandomState(s.Seed),
		cluster.WithKMeansScorer(adcmScore),
	)
	if err := km.Fit(fc.sorted); err != nil {
		return nil, err
	}
	if !km.Converged() {
		errors.Warn(errors.NewConvergenceWarning(name, km.NIterations(), "k-means centers still moving"))
	}
	if km.K() < s.K {
		errors.Warn(errors.NewClassCountWarning(name, s.K, km.K(), "empty clusters dropped"))
	}

	// ラベルは中心の昇順なので、昇順データでは各クラスタの最後の値が上端になる
	labels := km.Labels()
	bins := make([]float64, km.K())
	for i, v := range fc.sorted {
		bins[labels[i]] = v
	}
	return &partition{bins: bins, iterations: km.NIterations()}, nil
}

// adcmScore は各実行をADCMで比較します。計算できない実行は選ばれません。
func adcmScore(x []float64, labels []int, k int) float64 {
	v, err := metrics.ADCM(x, labels, k)
	if err != nil {
		return math.Inf(1)
	}
	return v
}
