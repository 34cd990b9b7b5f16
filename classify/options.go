package classify

import (
	"slices"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

// Option はUpdateやSessionでスキームのオプションを上書きします。
type Option func(*overrides)

type overrides struct {
	k         *int
	hinge     *float64
	bins      []float64
	lowest    *float64
	pct       []float64
	multiples []float64
	minDiff   *float64
	samplePct *float64
	truncate  *bool
	initial   *int
	floor     *int
	maxIter   *int
	seed      *int64
}

// WithK はクラス数を上書きします。
func WithK(k int) Option {
	return func(o *overrides) { o.k = &k }
}

// WithHinge はBoxPlotのヒンジ係数を上書きします。
func WithHinge(h float64) Option {
	return func(o *overrides) { o.hinge = &h }
}

// WithBins はUserDefinedの境界を上書きします。
func WithBins(bins []float64) Option {
	return func(o *overrides) { o.bins = slices.Clone(bins) }
}

// WithLowest はUserDefinedのレジェンド最下端を上書きします。
func WithLowest(lowest float64) Option {
	return func(o *overrides) { o.lowest = &lowest }
}

// WithPct はPercentilesのパーセンタイル列を上書きします。
func WithPct(pct []float64) Option {
	return func(o *overrides) { o.pct = slices.Clone(pct) }
}

// WithMultiples はStdMeanの倍数列を上書きします。
func WithMultiples(m []float64) Option {
	return func(o *overrides) { o.multiples = slices.Clone(m) }
}

// WithMinDiff はMaximumBreaksの最小差を上書きします。
func WithMinDiff(d float64) Option {
	return func(o *overrides) { o.minDiff = &d }
}

// WithSamplePct はサンプリング版のサンプル比率を上書きします。
func WithSamplePct(p float64) Option {
	return func(o *overrides) { o.samplePct = &p }
}

// WithTruncate はFisherJenksSampledのサンプル数上限の有無を上書きします。
func WithTruncate(t bool) Option {
	return func(o *overrides) { o.truncate = &t }
}

// WithInitial はNaturalBreaks・MaxPの初期解の数を上書きします。
func WithInitial(n int) Option {
	return func(o *overrides) { o.initial = &n }
}

// WithFloor はMaxPのクラスあたり最小観測数を上書きします。
func WithFloor(n int) Option {
	return func(o *overrides) { o.floor = &n }
}

// WithMaxIter は反復探索の上限回数を上書きします。
func WithMaxIter(n int) Option {
	return func(o *overrides) { o.maxIter = &n }
}

// WithSeed は乱数シードを上書きします。
func WithSeed(seed int64) Option {
	return func(o *overrides) { o.seed = &seed }
}

// Configure はsにoptsを適用したスキームを返します。
// スキームが持たないオプションを指定した場合はValidationErrorになります。
func Configure(s Scheme, opts ...Option) (Scheme, error) {
	if s == nil {
		return nil, errors.NewValidationError("scheme", "must not be nil", nil)
	}
	var o overrides
	for _, opt := range opts {
		opt(&o)
	}
	return o.apply(s)
}

func (o *overrides) apply(s Scheme) (Scheme, error) {
	var used []string
	setInt := func(dst *int, v *int, name string) {
		if v != nil {
			*dst = *v
			used = append(used, name)
		}
	}
	setFloat := func(dst *float64, v *float64, name string) {
		if v != nil {
			*dst = *v
			used = append(used, name)
		}
	}
	setSeed := func(dst *int64) {
		if o.seed != nil {
			*dst = *o.seed
			used = append(used, "seed")
		}
	}

	switch s := s.(type) {
	case EqualInterval:
		setInt(&s.K, o.k, "k")
		return s, o.check(s, used)
	case Quantiles:
		setInt(&s.K, o.k, "k")
		return s, o.check(s, used)
	case Percentiles:
		s.Pct = slices.Clone(s.Pct)
		if o.pct != nil {
			s.Pct = o.pct
			used = append(used, "pct")
		}
		return s, o.check(s, used)
	case BoxPlot:
		setFloat(&s.Hinge, o.hinge, "hinge")
		return s, o.check(s, used)
	case StdMean:
		s.Multiples = slices.Clone(s.Multiples)
		if o.multiples != nil {
			s.Multiples = o.multiples
			used = append(used, "multiples")
		}
		return s, o.check(s, used)
	case MaximumBreaks:
		setInt(&s.K, o.k, "k")
		setFloat(&s.MinDiff, o.minDiff, "mindiff")
		return s, o.check(s, used)
	case UserDefined:
		s.Bins = slices.Clone(s.Bins)
		if o.bins != nil {
			s.Bins = o.bins
			used = append(used, "bins")
		}
		if o.lowest != nil {
			v := *o.lowest
			s.Lowest = &v
			used = append(used, "lowest")
		}
		return s, o.check(s, used)
	case FisherJenks:
		setInt(&s.K, o.k, "k")
		return s, o.check(s, used)
	case FisherJenksSampled:
		setInt(&s.K, o.k, "k")
		setFloat(&s.Pct, o.samplePct, "samplepct")
		if o.truncate != nil {
			s.Truncate = *o.truncate
			used = append(used, "truncate")
		}
		setSeed(&s.Seed)
		return s, o.check(s, used)
	case JenksCaspall:
		setInt(&s.K, o.k, "k")
		setInt(&s.MaxIter, o.maxIter, "maxiter")
		setSeed(&s.Seed)
		return s, o.check(s, used)
	case JenksCaspallSampled:
		setInt(&s.K, o.k, "k")
		setFloat(&s.Pct, o.samplePct, "samplepct")
		setInt(&s.MaxIter, o.maxIter, "maxiter")
		setSeed(&s.Seed)
		return s, o.check(s, used)
	case JenksCaspallForced:
		setInt(&s.K, o.k, "k")
		setInt(&s.MaxIter, o.maxIter, "maxiter")
		return s, o.check(s, used)
	case NaturalBreaks:
		setInt(&s.K, o.k, "k")
		setInt(&s.Initial, o.initial, "initial")
		setInt(&s.MaxIter, o.maxIter, "maxiter")
		setSeed(&s.Seed)
		return s, o.check(s, used)
	case HeadTailBreaks:
		return s, o.check(s, used)
	case MaxP:
		setInt(&s.K, o.k, "k")
		setInt(&s.Initial, o.initial, "initial")
		setInt(&s.Floor, o.floor, "floor")
		setInt(&s.MaxIter, o.maxIter, "maxiter")
		setSeed(&s.Seed)
		return s, o.check(s, used)
	default:
		return nil, errors.NewValidationError("scheme", "unsupported scheme type", s)
	}
}

// cloneScheme はスライスとポインタを持つペイロードを複製したスキームを返します。
func cloneScheme(s Scheme) Scheme {
	switch s := s.(type) {
	case Percentiles:
		s.Pct = slices.Clone(s.Pct)
		return s
	case StdMean:
		s.Multiples = slices.Clone(s.Multiples)
		return s
	case UserDefined:
		s.Bins = slices.Clone(s.Bins)
		if s.Lowest != nil {
			v := *s.Lowest
			s.Lowest = &v
		}
		return s
	default:
		return s
	}
}

// check はスキームに適用されなかったオプションがないかを確認します。
func (o *overrides) check(s Scheme, used []string) error {
	if o.count() != len(used) {
		return errors.NewValidationError("options", "option does not apply to "+s.Method().String(), o.names())
	}
	return nil
}

func (o *overrides) names() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(o.k != nil, "k")
	add(o.hinge != nil, "hinge")
	add(o.bins != nil, "bins")
	add(o.lowest != nil, "lowest")
	add(o.pct != nil, "pct")
	add(o.multiples != nil, "multiples")
	add(o.minDiff != nil, "mindiff")
	add(o.samplePct != nil, "samplepct")
	add(o.truncate != nil, "truncate")
	add(o.initial != nil, "initial")
	add(o.floor != nil, "floor")
	add(o.maxIter != nil, "maxiter")
	add(o.seed != nil, "seed")
	return names
}

func (o *overrides) count() int {
	return len(o.names())
}
