package classify

import (
	"fmt"
	"slices"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

// Method は分類スキームの種類を表すタグです。
type Method int

const (
	MethodEqualInterval Method = iota
	MethodQuantiles
	MethodPercentiles
	MethodBoxPlot
	MethodStdMean
	MethodMaximumBreaks
	MethodUserDefined
	MethodFisherJenks
	MethodFisherJenksSampled
	MethodJenksCaspall
	MethodJenksCaspallSampled
	MethodJenksCaspallForced
	MethodNaturalBreaks
	MethodHeadTailBreaks
	MethodMaxP
)

var methodNames = [...]string{
	MethodEqualInterval:       "EqualInterval",
	MethodQuantiles:           "Quantiles",
	MethodPercentiles:         "Percentiles",
	MethodBoxPlot:             "BoxPlot",
	MethodStdMean:             "StdMean",
	MethodMaximumBreaks:       "MaximumBreaks",
	MethodUserDefined:         "UserDefined",
	MethodFisherJenks:         "FisherJenks",
	MethodFisherJenksSampled:  "FisherJenksSampled",
	MethodJenksCaspall:        "JenksCaspall",
	MethodJenksCaspallSampled: "JenksCaspallSampled",
	MethodJenksCaspallForced:  "JenksCaspallForced",
	MethodNaturalBreaks:       "NaturalBreaks",
	MethodHeadTailBreaks:      "HeadTailBreaks",
	MethodMaxP:                "MaxP",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Methods は全てのスキームのタグを定義順に返します。
func Methods() []Method {
	out := make([]Method, len(methodNames))
	for i := range out {
		out[i] = Method(i)
	}
	return out
}

// Scheme は分類アルゴリズムとそのオプションの組です。
// このパッケージで定義された構造体だけが実装できます。
type Scheme interface {
	Method() Method
	scheme()
}

// 既定値
const (
	DefaultK               = 5
	DefaultHinge           = 1.5
	DefaultSamplePct       = 0.10
	DefaultSampleLimit     = 1000
	DefaultNaturalInitial  = 10
	DefaultMaxPInitial     = 1000
	DefaultFloor           = 1
	DefaultJenksMaxIter    = 1000
	DefaultKMeansMaxIter   = 300
	DefaultMaxPSwapMaxIter = 1000
)

var (
	defaultPercentiles = []float64{1, 10, 50, 90, 99, 100}
	defaultMultiples   = []float64{-2, -1, 1, 2}
)

// EqualInterval は値域をk等分します。
type EqualInterval struct{ K int }

// Quantiles は経験分位点を境界とします。重複する分位点は除かれます。
type Quantiles struct{ K int }

// Percentiles は指定パーセンタイルを境界とします。Pctは[0,100]で狭義単調増加。
type Percentiles struct{ Pct []float64 }

// BoxPlot は箱ひげ図の各点（下側フェンス、Q1、中央値、Q3、上側フェンス、最大値）を境界とします。
type BoxPlot struct{ Hinge float64 }

// StdMean は平均から標準偏差の倍数だけ離れた点を境界とします。
type StdMean struct{ Multiples []float64 }

// MaximumBreaks は隣接値の差が大きいk-1箇所の中点を境界とします。
// MinDiff以下の差は候補から除かれます。
type MaximumBreaks struct {
	K       int
	MinDiff float64
}

// UserDefined は呼び出し側が与えた境界を使います。
// Lowestが非nilならレジェンドの最下端として使われます。
type UserDefined struct {
	Bins   []float64
	Lowest *float64
}

// FisherJenks は動的計画法でクラス内平方和を最小にする分割を求めます。
type FisherJenks struct{ K int }

// FisherJenksSampled はサブサンプルにFisherJenksを適用し、その境界で全データを分類します。
type FisherJenksSampled struct {
	K        int
	Pct      float64
	Truncate bool
	Seed     int64
}

// JenksCaspall は分位点分割から出発し、各値を最も近いクラス中央値に再割り当てします。
type JenksCaspall struct {
	K       int
	MaxIter int
	Seed    int64
}

// JenksCaspallSampled はサブサンプルにJenksCaspallを適用します。
type JenksCaspallSampled struct {
	K       int
	Pct     float64
	MaxIter int
	Seed    int64
}

// JenksCaspallForced は全てのクラスが空でない状態を保ったまま境界の値を上下に移動します。
type JenksCaspallForced struct {
	K       int
	MaxIter int
}

// NaturalBreaks は1次元k-meansをInitial回実行し、ADCMが最小の結果を採用します。
type NaturalBreaks struct {
	K       int
	Initial int
	MaxIter int
	Seed    int64
}

// HeadTailBreaks は裾の重い分布を平均で再帰的に分割します。kは入力ではありません。
type HeadTailBreaks struct{}

// MaxP は各クラスがFloor個以上の観測値を持つという制約の下で、
// クラス内平方和が最小の分割を乱択領域成長で探索します。
type MaxP struct {
	K       int
	Initial int
	Floor   int
	MaxIter int
	Seed    int64
}

func (EqualInterval) Method() Method       { return MethodEqualInterval }
func (Quantiles) Method() Method           { return MethodQuantiles }
func (Percentiles) Method() Method         { return MethodPercentiles }
func (BoxPlot) Method() Method             { return MethodBoxPlot }
func (StdMean) Method() Method             { return MethodStdMean }
func (MaximumBreaks) Method() Method       { return MethodMaximumBreaks }
func (UserDefined) Method() Method         { return MethodUserDefined }
func (FisherJenks) Method() Method         { return MethodFisherJenks }
func (FisherJenksSampled) Method() Method  { return MethodFisherJenksSampled }
func (JenksCaspall) Method() Method        { return MethodJenksCaspall }
func (JenksCaspallSampled) Method() Method { return MethodJenksCaspallSampled }
func (JenksCaspallForced) Method() Method  { return MethodJenksCaspallForced }
func (NaturalBreaks) Method() Method       { return MethodNaturalBreaks }
func (HeadTailBreaks) Method() Method      { return MethodHeadTailBreaks }
func (MaxP) Method() Method                { return MethodMaxP }

func (EqualInterval) scheme()       {}
func (Quantiles) scheme()           {}
func (Percentiles) scheme()         {}
func (BoxPlot) scheme()             {}
func (StdMean) scheme()             {}
func (MaximumBreaks) scheme()       {}
func (UserDefined) scheme()         {}
func (FisherJenks) scheme()         {}
func (FisherJenksSampled) scheme()  {}
func (JenksCaspall) scheme()        {}
func (JenksCaspallSampled) scheme() {}
func (JenksCaspallForced) scheme()  {}
func (NaturalBreaks) scheme()       {}
func (HeadTailBreaks) scheme()      {}
func (MaxP) scheme()                {}

// DefaultScheme はmの既定オプションを持つスキームを返します。
// UserDefinedは境界が必要なため、Binsが空のまま返されます。
func DefaultScheme(m Method) (Scheme, error) {
	switch m {
	case MethodEqualInterval:
		return EqualInterval{K: DefaultK}, nil
	case MethodQuantiles:
		return Quantiles{K: DefaultK}, nil
	case MethodPercentiles:
		return Percentiles{Pct: slices.Clone(defaultPercentiles)}, nil
	case MethodBoxPlot:
		return BoxPlot{Hinge: DefaultHinge}, nil
	case MethodStdMean:
		return StdMean{Multiples: slices.Clone(defaultMultiples)}, nil
	case MethodMaximumBreaks:
		return MaximumBreaks{K: DefaultK}, nil
	case MethodUserDefined:
		return UserDefined{}, nil
	case MethodFisherJenks:
		return FisherJenks{K: DefaultK}, nil
	case MethodFisherJenksSampled:
		return FisherJenksSampled{K: DefaultK, Pct: DefaultSamplePct, Truncate: true}, nil
	case MethodJenksCaspall:
		return JenksCaspall{K: DefaultK}, nil
	case MethodJenksCaspallSampled:
		return JenksCaspallSampled{K: DefaultK, Pct: DefaultSamplePct}, nil
	case MethodJenksCaspallForced:
		return JenksCaspallForced{K: DefaultK}, nil
	case MethodNaturalBreaks:
		return NaturalBreaks{K: DefaultK, Initial: DefaultNaturalInitial}, nil
	case MethodHeadTailBreaks:
		return HeadTailBreaks{}, nil
	case MethodMaxP:
		return MaxP{K: DefaultK, Initial: DefaultMaxPInitial, Floor: DefaultFloor}, nil
	default:
		return nil, errors.NewValidationError("method", "unknown classification method", int(m))
	}
}

// KOf はスキームのクラス数オプションを返します。kを持たないスキームではfalseを返します。
func KOf(s Scheme) (int, bool) {
	switch s := s.(type) {
	case EqualInterval:
		return s.K, true
	case Quantiles:
		return s.K, true
	case MaximumBreaks:
		return s.K, true
	case FisherJenks:
		return s.K, true
	case FisherJenksSampled:
		return s.K, true
	case JenksCaspall:
		return s.K, true
	case JenksCaspallSampled:
		return s.K, true
	case JenksCaspallForced:
		return s.K, true
	case NaturalBreaks:
		return s.K, true
	case MaxP:
		return s.K, true
	default:
		return 0, false
	}
}
