package classify

import (
	"context"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/YuminosukeSato/mapclassify/core/model"
	"github.com/YuminosukeSato/mapclassify/core/parallel"
	"github.com/YuminosukeSato/mapclassify/metrics"
	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/pkg/log"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

// findBinThreshold を超える値の数で FindBin は並列に処理される。
const findBinThreshold = 10000

var _ model.Classification = (*Classifier)(nil)

// Classifier は観測値ベクトルを順序付きクラスに分類した結果です。
// 構築後は不変で、Update は新しい Classifier を返します。
type Classifier struct {
	scheme Scheme
	y      []float64
	bins   []float64
	yb     []int
	counts []int

	adcm       float64
	tss        float64
	gadf       float64
	withinSS   float64
	iterations int
	lowest     float64
}

// fitContext はアルゴリズムに渡される入力です。
type fitContext struct {
	y      []float64 // 入力順
	sorted []float64 // 昇順
	logger log.Logger
}

func (fc *fitContext) n() int { return len(fc.sorted) }

func (fc *fitContext) max() float64 { return fc.sorted[len(fc.sorted)-1] }

// partition はアルゴリズムが求めた境界です。最後の境界が最大値未満なら最大値が追加されます。
type partition struct {
	bins       []float64
	iterations int
}

// Fit はyをschemeで分類します。
//
// 使用例:
//
//	c, err := classify.Fit(y, classify.FisherJenks{K: 5})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(c.Bins(), c.Counts())
func Fit(y []float64, scheme Scheme) (*Classifier, error) {
	if scheme == nil {
		return nil, errors.NewValidationError("scheme", "must not be nil", nil)
	}
	name := scheme.Method().String()
	if err := preprocessing.CheckVector("y", y); err != nil {
		return nil, errors.Wrap(err, name)
	}

	start := time.Now()
	y = slices.Clone(y)
	fc := &fitContext{
		y:      y,
		sorted: preprocessing.Sorted(y),
		logger: logger().With(log.ClassifierKey, name),
	}

	p, err := dispatch(fc, scheme)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	c, err := newClassifier(y, p.bins, scheme)
	if err != nil {
		return nil, err
	}
	c.iterations = p.iterations

	if fc.logger.Enabled(context.Background(), log.LevelDebug) {
		fields := []any{
			log.OperationKey, log.OperationFit,
			log.SamplesKey, len(y),
			log.ClassesKey, c.K(),
			log.BinsKey, c.bins,
			log.ADCMKey, c.adcm,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		}
		if p.iterations > 0 {
			fields = append(fields, log.IterationKey, p.iterations)
		}
		if seed, ok := seedOf(scheme); ok {
			fields = append(fields, log.RandomSeedKey, seed)
		}
		fc.logger.Debug("fit complete", fields...)
	}
	return c, nil
}

// dispatch はスキームの種類に応じてアルゴリズムを選びます。
func dispatch(fc *fitContext, scheme Scheme) (*partition, error) {
	switch s := scheme.(type) {
	case EqualInterval:
		return equalInterval(fc, s)
	case Quantiles:
		return quantiles(fc, s)
	case Percentiles:
		return percentiles(fc, s)
	case BoxPlot:
		return boxPlot(fc, s)
	case StdMean:
		return stdMean(fc, s)
	case MaximumBreaks:
		return maximumBreaks(fc, s)
	case UserDefined:
		return userDefined(fc, s)
	case FisherJenks:
		return fisherJenks(fc, s)
	case FisherJenksSampled:
		return fisherJenksSampled(fc, s)
	case JenksCaspall:
		return jenksCaspall(fc, s)
	case JenksCaspallSampled:
		return jenksCaspallSampled(fc, s)
	case JenksCaspallForced:
		return jenksCaspallForced(fc, s)
	case NaturalBreaks:
		return naturalBreaks(fc, s)
	case HeadTailBreaks:
		return headTailBreaks(fc)
	case MaxP:
		return maxP(fc, s)
	default:
		return nil, errors.NewValidationError("scheme", "unsupported scheme type", scheme)
	}
}

// newClassifier はyを境界binsで分類し、診断値を計算します。
// binsの最後が最大値未満の場合は最大値を追加します。yは呼び出し側から切り離されていること。
func newClassifier(y, bins []float64, scheme Scheme) (*Classifier, error) {
	ymax, ymin := y[0], y[0]
	for _, v := range y {
		ymax = max(ymax, v)
		ymin = min(ymin, v)
	}
	if len(bins) == 0 || bins[len(bins)-1] < ymax {
		bins = append(bins, ymax)
	}
	if !slices.IsSorted(bins) {
		return nil, errors.NewModelError(scheme.Method().String(), "computed edges are not ascending", nil)
	}

	k := len(bins)
	c := &Classifier{
		scheme: scheme,
		y:      y,
		bins:   bins,
		yb:     findBin(bins, y),
		counts: make([]int, k),
		lowest: ymin,
	}
	if ud, ok := scheme.(UserDefined); ok && ud.Lowest != nil {
		c.lowest = *ud.Lowest
	}
	for _, b := range c.yb {
		c.counts[b]++
	}

	var err error
	if c.adcm, err = metrics.ADCM(y, c.yb, k); err != nil {
		return nil, err
	}
	if c.withinSS, err = metrics.WithinSS(y, c.yb, k); err != nil {
		return nil, err
	}
	c.tss = metrics.TSS(y)
	c.gadf = metrics.GADF(c.adcm, metrics.ADAM(y))
	return c, nil
}

// findBin は各値について最初に value <= bins[i] となる i を返します。
// 最後の境界を超える値は最後のクラスになります。
func findBin(bins, values []float64) []int {
	out := make([]int, len(values))
	last := len(bins) - 1
	parallel.ParallelizeWithThreshold(len(values), findBinThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			b := sort.SearchFloat64s(bins, values[i])
			if b > last {
				b = last
			}
			out[i] = b
		}
	})
	return out
}

// FindBin は任意の値をこの分類の境界で分類します。分類器は変更されません。
func (c *Classifier) FindBin(values []float64) []int {
	return findBin(c.bins, values)
}

// Update はyにnewValuesを連結したデータで同じスキームを再適合します。
// optsで指定したオプションはスキームに上書きされます。
// 結果は連結データに対して最終スキームで Fit した場合と同一です。
func (c *Classifier) Update(newValues []float64, opts ...Option) (*Classifier, error) {
	scheme, err := Configure(c.scheme, opts...)
	if err != nil {
		return nil, err
	}
	merged := make([]float64, 0, len(c.y)+len(newValues))
	merged = append(merged, c.y...)
	merged = append(merged, newValues...)

	logger().Debug("update",
		log.ClassifierKey, scheme.Method().String(),
		log.OperationKey, log.OperationUpdate,
		log.BatchSizeKey, len(newValues),
	)
	return Fit(merged, scheme)
}

// Name はスキーム名を返します。
func (c *Classifier) Name() string { return c.scheme.Method().String() }

// Scheme は適合に使ったスキームの複製を返します。
func (c *Classifier) Scheme() Scheme { return cloneScheme(c.scheme) }

// K はクラス数を返します。
func (c *Classifier) K() int { return len(c.bins) }

func (c *Classifier) Bins() []float64 { return slices.Clone(c.bins) }
func (c *Classifier) Yb() []int       { return slices.Clone(c.yb) }
func (c *Classifier) Counts() []int   { return slices.Clone(c.counts) }
func (c *Classifier) Y() []float64    { return slices.Clone(c.y) }

// ADCM はクラス中央値周りの絶対偏差の合計です。
func (c *Classifier) ADCM() float64 { return c.adcm }

// TSS は全体平均周りの二乗和です。
func (c *Classifier) TSS() float64 { return c.tss }

// GADF は 1 - ADCM/ADAM です。
// 分母はTSS（平均周りの二乗和）ではなく、全体の中央値周りの絶対偏差の合計（ADAM）です。
func (c *Classifier) GADF() float64 { return c.gadf }

// WithinSS はクラス平均周りの二乗和の合計です。
func (c *Classifier) WithinSS() float64 { return c.withinSS }

// Iterations は反復探索の反復回数です。反復しないスキームでは0。
func (c *Classifier) Iterations() int { return c.iterations }

// Lowest はレジェンドの最下端です。UserDefined.Lowestが無ければyの最小値。
func (c *Classifier) Lowest() float64 { return c.lowest }

// Classes はクラスごとの観測値の添字を返します。
func (c *Classifier) Classes() [][]int {
	out := make([][]int, c.K())
	for i, b := range c.yb {
		out[b] = append(out[b], i)
	}
	return out
}

// LowOutliers はBoxPlotで下側フェンス以下の観測値の添字を返します。他のスキームではnil。
func (c *Classifier) LowOutliers() []int {
	if _, ok := c.scheme.(BoxPlot); !ok {
		return nil
	}
	return c.Classes()[0]
}

// HighOutliers はBoxPlotで上側フェンスを超える観測値の添字を返します。
// 上側フェンスが最大値以上の場合（k=5）は外れ値はありません。
func (c *Classifier) HighOutliers() []int {
	if _, ok := c.scheme.(BoxPlot); !ok || c.K() < 6 {
		return nil
	}
	return c.Classes()[5]
}

func seedOf(s Scheme) (int64, bool) {
	switch s := s.(type) {
	case FisherJenksSampled:
		return s.Seed, true
	case JenksCaspall:
		return s.Seed, true
	case JenksCaspallSampled:
		return s.Seed, true
	case NaturalBreaks:
		return s.Seed, true
	case MaxP:
		return s.Seed, true
	default:
		return 0, false
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func logger() log.Logger {
	return log.GetLogger().With(log.ComponentKey, "classify")
}
