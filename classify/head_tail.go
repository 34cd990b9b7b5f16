package classify

import (
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

// headRatioLimit 以上の割合が平均を上回ったら分割を止める
const headRatioLimit = 0.4

func headTailBreaks(fc *fitContext) (*partition, error) {
	var bins []float64
	vals := fc.y
	for preprocessing.CountUnique(vals) > 1 {
		m := stat.Mean(vals, nil)
		bins = append(bins, m)

		head := make([]float64, 0, len(vals))
		for _, v := range vals {
			if v > m {
				head = append(head, v)
			}
		}
		if float64(len(head))/float64(len(vals)) >= headRatioLimit {
			break
		}
		vals = head
	}
	return &partition{bins: bins, iterations: len(bins)}, nil
}
