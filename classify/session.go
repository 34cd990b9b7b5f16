package classify

import (
	"github.com/YuminosukeSato/mapclassify/core/model"
	"github.com/YuminosukeSato/mapclassify/pkg/log"
)

// SessionOption はSessionの設定オプションです。
type SessionOption func(*Session)

// WithRolling はバッチを過去の観測値に累積して再適合するかを設定します。
func WithRolling(rolling bool) SessionOption {
	return func(s *Session) {
		s.rolling = rolling
	}
}

// Session は同じスキームで次々に届くバッチを分類します。
// rollingが有効なら各バッチはそれまでの全観測値に追加されてから再適合され、
// 無効なら各バッチは独立に適合されます。並行に呼び出しても安全です。
//
//	s := classify.NewSession(classify.Quantiles{K: 5}, classify.WithRolling(true))
//	for batch := range batches {
//	    yb, err := s.Classify(batch)
//	    ...
//	}
type Session struct {
	scheme  Scheme
	rolling bool
	acc     *model.Accumulator[*Classifier]
}

// NewSession は新しいSessionを作成します。
func NewSession(scheme Scheme, opts ...SessionOption) *Session {
	s := &Session{
		scheme: scheme,
		acc:    model.NewAccumulator[*Classifier](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify はbatchを取り込んで再適合し、batchの各値のクラスを返します。
// 失敗した場合、セッションの状態は変わりません。
func (s *Session) Classify(batch []float64) ([]int, error) {
	c, err := s.acc.Apply(func(prev []float64, fitted bool) ([]float64, *Classifier, error) {
		data := batch
		if s.rolling && fitted {
			data = make([]float64, 0, len(prev)+len(batch))
			data = append(data, prev...)
			data = append(data, batch...)
		}
		c, err := Fit(data, s.scheme)
		if err != nil {
			return nil, nil, err
		}
		return c.y, c, nil
	})
	if err != nil {
		return nil, err
	}

	logger().Debug("session batch classified",
		log.ClassifierKey, c.Name(),
		log.BatchSizeKey, len(batch),
		log.SamplesKey, len(c.y),
		log.ClassesKey, c.K(),
	)
	return c.FindBin(batch), nil
}

// Classifier は直近の適合結果を返します。rollingなら累積した全観測値への適合です。
func (s *Session) Classifier() (*Classifier, error) {
	if err := s.acc.RequireFitted("Session", "Classifier"); err != nil {
		return nil, err
	}
	c, _ := s.acc.Current()
	return c, nil
}

// FindBin は直近の適合結果の境界で値を分類します。
func (s *Session) FindBin(values []float64) ([]int, error) {
	c, err := s.Classifier()
	if err != nil {
		return nil, err
	}
	return c.FindBin(values), nil
}

// Observations は直近の適合に使われた観測値を返します。
func (s *Session) Observations() []float64 { return s.acc.Observations() }

// Batches は取り込んだバッチ数を返します。
func (s *Session) Batches() int { return s.acc.Batches() }

func (s *Session) Rolling() bool  { return s.rolling }
func (s *Session) Scheme() Scheme { return s.scheme }

// Reset は取り込んだ観測値と適合結果を破棄します。
func (s *Session) Reset() { s.acc.Reset() }
