package classify

import (
	"sort"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

// Bin1D は各値を bins[i-1] < x <= bins[i] となるクラスiに割り当て、クラス番号と度数を返します。
// 最後の境界を超える値はクラス0として数えられます。binsは昇順であること。
func Bin1D(x, bins []float64) ([]int, []int) {
	ids := make([]int, len(x))
	counts := make([]int, len(bins))
	if len(bins) == 0 {
		return ids, counts
	}
	for i, v := range x {
		b := sort.SearchFloat64s(bins, v)
		if b >= len(bins) {
			b = 0
		}
		ids[i] = b
		counts[b]++
	}
	return ids, counts
}

// Bin は表の各セルをBin1Dと同じ規則で分類します。全ての行は同じ長さであること。
func Bin(y [][]float64, bins []float64) ([][]int, error) {
	if err := preprocessing.CheckEdges("bins", bins); err != nil {
		return nil, err
	}
	if err := checkTable("Bin", y); err != nil {
		return nil, err
	}
	out := make([][]int, len(y))
	for r, row := range y {
		out[r], _ = Bin1D(row, bins)
	}
	return out, nil
}

// BinC は表の各セルを、categories 内でその値と一致する位置に割り当てます。
// どのカテゴリにも一致しない値があればValidationErrorを返します。
func BinC(y [][]float64, categories []float64) ([][]int, error) {
	if len(categories) == 0 {
		return nil, errors.NewValidationError("categories", "must contain at least one value", 0)
	}
	if err := checkTable("BinC", y); err != nil {
		return nil, err
	}
	index := make(map[float64]int, len(categories))
	for i, c := range categories {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	out := make([][]int, len(y))
	for r, row := range y {
		out[r] = make([]int, len(row))
		for j, v := range row {
			b, ok := index[v]
			if !ok {
				return nil, errors.NewValidationError("y", "value not in categories", map[string]interface{}{
					"row": r, "column": j, "value": v,
				})
			}
			out[r][j] = b
		}
	}
	return out, nil
}

func checkTable(op string, y [][]float64) error {
	if len(y) == 0 {
		return errors.NewValidationError("y", errors.ErrEmptyData.Error(), 0)
	}
	width := len(y[0])
	for _, row := range y[1:] {
		if len(row) != width {
			return errors.NewDimensionError(op, width, len(row), 1)
		}
	}
	return nil
}
