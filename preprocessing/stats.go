package preprocessing

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary はベクトルの基本統計量です。
type Summary struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
	// Std は標本標準偏差（n-1で割る）。n == 1 の場合は0。
	Std float64
}

// Describe はyの基本統計量を計算します。yは空でないこと。
func Describe(y []float64) Summary {
	s := Summary{
		N:   len(y),
		Min: floats.Min(y),
		Max: floats.Max(y),
	}
	if len(y) == 1 {
		s.Mean = y[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(y, nil)
	return s
}
