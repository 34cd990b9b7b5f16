// Package metrics は分類の適合度指標を提供します。
//
// ADCM（クラス中央値周りの絶対偏差）、ADAM（全体の中央値周りの絶対偏差）、
// TSS（全体平均周りの二乗和）、クラス内二乗和、およびGADFを計算します。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

// ClassMembers はクラスごとに観測値をまとめます。
func ClassMembers(y []float64, yb []int, k int) ([][]float64, error) {
	if len(yb) != len(y) {
		return nil, errors.NewDimensionError("ClassMembers", len(y), len(yb), 0)
	}
	members := make([][]float64, k)
	for i, c := range yb {
		if c < 0 || c >= k {
			return nil, errors.NewValidationError("yb", "class index out of range", map[string]int{"index": i, "class": c, "k": k})
		}
		members[c] = append(members[c], y[i])
	}
	return members, nil
}

// ADCM はクラス中央値周りの絶対偏差の合計を計算する
// ADCM = Σ_c Σ_{i∈c} |y_i - median(c)|
func ADCM(y []float64, yb []int, k int) (float64, error) {
	members, err := ClassMembers(y, yb, k)
	if err != nil {
		return 0, errors.Wrap(err, "ADCM")
	}
	var adcm float64
	for _, m := range members {
		adcm += absDev(m)
	}
	return adcm, nil
}

// ADAM は全体の中央値周りの絶対偏差の合計を計算する
func ADAM(y []float64) float64 {
	return absDev(y)
}

// TSS は全体平均周りの二乗和を計算する
func TSS(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	return sumSquares(y, stat.Mean(y, nil))
}

// WithinSS はクラス平均周りの二乗和の合計を計算する
func WithinSS(y []float64, yb []int, k int) (float64, error) {
	members, err := ClassMembers(y, yb, k)
	if err != nil {
		return 0, errors.Wrap(err, "WithinSS")
	}
	var ss float64
	for _, m := range members {
		if len(m) == 0 {
			continue
		}
		ss += sumSquares(m, stat.Mean(m, nil))
	}
	return ss, nil
}

// GADF は絶対偏差適合度 1 - ADCM/ADAM を計算する
// ADAMが0（全ての値が中央値に等しい）の場合はどの分割も完全に適合するため、
// UndefinedMetricWarningを発生させて1を返す。
func GADF(adcm, adam float64) float64 {
	if adam == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("gadf", "zero absolute deviation around the median", 1))
		return 1
	}
	return 1 - adcm/adam
}

func absDev(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	med := preprocessing.Median(v)
	d := make([]float64, len(v))
	for i, x := range v {
		d[i] = math.Abs(x - med)
	}
	return floats.Sum(d)
}

func sumSquares(v []float64, center float64) float64 {
	var ss float64
	for _, x := range v {
		diff := x - center
		ss += diff * diff
	}
	return ss
}
