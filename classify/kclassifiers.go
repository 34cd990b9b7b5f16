package classify

import (
	"context"
	"slices"

	"github.com/YuminosukeSato/mapclassify/core/parallel"
	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/pkg/log"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

const (
	// DefaultGADFThreshold は探索を打ち切るGADFの値です。
	DefaultGADFThreshold = 0.8
	// DefaultSearchMaxK はGADFSearchで試す最大のkです。
	DefaultSearchMaxK = 15
)

// kCandidates はKClassifiersが比較するスキームで、並びが同点時の優先順位です。
var kCandidates = []Method{
	MethodFisherJenks,
	MethodNaturalBreaks,
	MethodQuantiles,
	MethodMaximumBreaks,
}

type searchConfig struct {
	threshold float64
	maxK      int
	ctx       context.Context
}

// SearchOption はGADFSearchとKClassifiersの設定オプションです。
type SearchOption func(*searchConfig)

// WithThreshold は目標とするGADFを設定します。
func WithThreshold(t float64) SearchOption {
	return func(c *searchConfig) { c.threshold = t }
}

// WithMaxK は試す最大のkを設定します。
func WithMaxK(k int) SearchOption {
	return func(c *searchConfig) { c.maxK = k }
}

// WithContext はKClassifiersの並列探索を取り消すためのcontextを設定します。
func WithContext(ctx context.Context) SearchOption {
	return func(c *searchConfig) { c.ctx = ctx }
}

// GADFResult はkを増やしながら探索した結果です。
type GADFResult struct {
	Scheme     Scheme
	K          int
	GADF       float64
	Classifier *Classifier
	// Reached はしきい値に達したかどうか。falseなら最大のkでの結果です。
	Reached bool
}

// Name は探索したスキームの名前です。
func (r *GADFResult) Name() string { return r.Scheme.Method().String() }

// GADFSearch はk=2から順にschemeを適合し、GADFがしきい値以上になった最初のkの結果を返します。
// しきい値に達しなければ最大のkでの結果を返します。最大のkは値の種類数で頭打ちになります。
func GADFSearch(y []float64, scheme Scheme, opts ...SearchOption) (*GADFResult, error) {
	cfg := searchConfig{threshold: DefaultGADFThreshold, maxK: DefaultSearchMaxK}
	for _, opt := range opts {
		opt(&cfg)
	}
	return gadfSearch(y, scheme, cfg)
}

func gadfSearch(y []float64, scheme Scheme, cfg searchConfig) (*GADFResult, error) {
	if scheme == nil {
		return nil, errors.NewValidationError("scheme", "must not be nil", nil)
	}
	if _, ok := KOf(scheme); !ok {
		return nil, errors.NewValidationError("scheme", "does not take a number of classes", scheme.Method().String())
	}
	if err := preprocessing.CheckVector("y", y); err != nil {
		return nil, err
	}
	if err := errors.CheckScalar("threshold", cfg.threshold); err != nil {
		return nil, err
	}
	unique := preprocessing.CountUnique(y)
	if unique < 2 {
		return nil, errors.NewValidationError("y", "needs at least two distinct values", unique)
	}
	if cfg.maxK < 2 {
		return nil, errors.NewValidationError("maxk", "must be at least 2", cfg.maxK)
	}
	maxK := min(cfg.maxK, unique)

	var res *GADFResult
	for k := 2; k <= maxK; k++ {
		s, err := Configure(scheme, WithK(k))
		if err != nil {
			return nil, err
		}
		c, err := Fit(y, s)
		if err != nil {
			return nil, errors.Wrapf(err, "gadf search at k=%d", k)
		}
		res = &GADFResult{Scheme: s, K: k, GADF: c.GADF(), Classifier: c}
		if c.GADF() >= cfg.threshold {
			res.Reached = true
			break
		}
	}

	logger().Debug("gadf search",
		log.ClassifierKey, res.Name(),
		log.OperationKey, log.OperationSearch,
		log.ThresholdKey, cfg.threshold,
		log.UniqueKey, unique,
		log.ClassesKey, res.K,
		log.GADFKey, res.GADF,
	)
	return res, nil
}

// KClassifiers は複数のスキームでGADFSearchを行い、最も少ないクラス数で
// しきい値に達したものを選びます。
type KClassifiers struct {
	results []*GADFResult
	best    *GADFResult
}

// NewKClassifiers はFisherJenks、NaturalBreaks、Quantiles、MaximumBreaksの順に
// GADFSearchを並列に実行します。最大のkの既定値は n-1 です。
// kが同じ場合は上記の順で先のスキームが選ばれます。
func NewKClassifiers(y []float64, opts ...SearchOption) (*KClassifiers, error) {
	cfg := searchConfig{
		threshold: DefaultGADFThreshold,
		maxK:      len(y) - 1,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := preprocessing.CheckVector("y", y); err != nil {
		return nil, err
	}

	results := make([]*GADFResult, len(kCandidates))
	err := parallel.ForEach(cfg.ctx, len(kCandidates), func(_ context.Context, i int) error {
		s, err := DefaultScheme(kCandidates[i])
		if err != nil {
			return err
		}
		r, err := gadfSearch(y, s, cfg)
		if err != nil {
			return errors.Wrap(err, kCandidates[i].String())
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.K < best.K {
			best = r
		}
	}
	logger().Debug("k classifiers",
		log.OperationKey, log.OperationSearch,
		log.ClassifierKey, best.Name(),
		log.ClassesKey, best.K,
		log.GADFKey, best.GADF,
	)
	return &KClassifiers{results: results, best: best}, nil
}

// Best は選ばれた結果です。
func (kc *KClassifiers) Best() *GADFResult { return kc.best }

// Results は全ての候補の結果を優先順に返します。
func (kc *KClassifiers) Results() []*GADFResult { return slices.Clone(kc.results) }

// Result はmの結果を返します。
func (kc *KClassifiers) Result(m Method) (*GADFResult, bool) {
	for _, r := range kc.results {
		if r.Scheme.Method() == m {
			return r, true
		}
	}
	return nil, false
}
