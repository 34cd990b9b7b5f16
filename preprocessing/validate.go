// Package preprocessing は分類前の入力検証と、経験分位点・中央値・
// サブサンプリングなど分類アルゴリズムが共有する前処理を提供します。
package preprocessing

import (
	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

// CheckVector は観測ベクトルが空でなく、全ての値が有限であることを検証します。
func CheckVector(param string, y []float64) error {
	if len(y) == 0 {
		return errors.WithStack(&errors.ValidationError{
			ParamName: param,
			Reason:    errors.ErrEmptyData.Error(),
			Value:     0,
		})
	}
	return errors.CheckFinite(param, y)
}

// CheckK はクラス数kが 1 <= k <= n を満たすことを検証します。
func CheckK(k, n int) error {
	if k < 1 {
		return errors.NewValidationError("k", "must be at least 1", k)
	}
	if k > n {
		return errors.NewValidationError("k", "must not exceed the number of observations", map[string]int{"k": k, "n": n})
	}
	return nil
}

// CheckEdges はビン境界が空でなく、有限かつ狭義単調増加であることを検証します。
func CheckEdges(param string, edges []float64) error {
	if len(edges) == 0 {
		return errors.NewValidationError(param, "must contain at least one edge", 0)
	}
	if err := errors.CheckFinite(param, edges); err != nil {
		return err
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return errors.NewValidationError(param, "must be strictly increasing", map[string]interface{}{
				"index": i,
				"prev":  edges[i-1],
				"value": edges[i],
			})
		}
	}
	return nil
}
