package classify

import (
	"fmt"
	"slices"

	"github.com/sourcegraph/conc/iter"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/pkg/log"
)

// Pooled は複数の列を共通の境界で分類した結果です。
// 全ての列を連結したデータにスキームを適合して境界を求め（GlobalClassifier）、
// 各列はその境界をUserDefinedとして再利用して分類されます（ColClassifiers）。
// 列同士のクラスはそのまま比較できます。
type Pooled struct {
	scheme Scheme
	global *Classifier
	cols   []*Classifier
}

// NewPooled はYの各列を共通の境界で分類します。Yの行が観測、列が変数です。
func NewPooled(Y mat.Matrix, scheme Scheme) (*Pooled, error) {
	if Y == nil {
		return nil, errors.NewValidationError("Y", errors.ErrEmptyData.Error(), nil)
	}
	r, c := Y.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValidationError("Y", errors.ErrEmptyData.Error(), fmt.Sprintf("%dx%d", r, c))
	}

	columns := make([][]float64, c)
	all := make([]float64, 0, r*c)
	for j := range columns {
		columns[j] = mat.Col(nil, j, Y)
		all = append(all, columns[j]...)
	}

	global, err := Fit(all, scheme)
	if err != nil {
		return nil, errors.Wrap(err, "Pooled")
	}
	lowest := slices.Min(all)
	shared := UserDefined{Bins: global.Bins(), Lowest: &lowest}

	cols, err := iter.MapErr(columns, func(col *[]float64) (*Classifier, error) {
		var out *Classifier
		err := errors.SafeExecute("Pooled column", func() error {
			var err error
			// 大域境界は重複を含みうるので、検証を通さず直接使う
			out, err = newClassifier(slices.Clone(*col), global.Bins(), shared)
			return err
		})
		return out, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "Pooled")
	}

	logger().Debug("pooled classification",
		log.ClassifierKey, scheme.Method().String(),
		log.OperationKey, log.OperationPool,
		log.SamplesKey, r,
		log.ColumnsKey, c,
		log.ClassesKey, global.K(),
	)
	return &Pooled{scheme: scheme, global: global, cols: cols}, nil
}

// GlobalClassifier は全列を連結したデータへの適合結果です。
func (p *Pooled) GlobalClassifier() *Classifier { return p.global }

// ColClassifiers は列ごとの分類結果を列順に返します。
func (p *Pooled) ColClassifiers() []*Classifier { return slices.Clone(p.cols) }

// Scheme は大域適合に使ったスキームです。
func (p *Pooled) Scheme() Scheme { return p.scheme }

func (p *Pooled) K() int          { return p.global.K() }
func (p *Pooled) Bins() []float64 { return p.global.Bins() }
func (p *Pooled) ADCM() float64   { return p.global.ADCM() }
func (p *Pooled) TSS() float64    { return p.global.TSS() }
func (p *Pooled) GADF() float64   { return p.global.GADF() }
