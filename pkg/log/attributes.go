// 分類処理のログで使用する標準属性キー。
// キーは "classifier.name" や "data.samples" のような階層的な命名に従います。

package log

// 分類器とオペレーションのコンテキスト
const (
	// ClassifierKey はスキーム名を表します。
	// 例: "Quantiles", "FisherJenks", "HeadTailBreaks"
	ClassifierKey = "classifier.name"

	// OperationKey は実行中の操作を表します。
	// 標準値: "fit", "update", "find_bin", "search", "pool"
	OperationKey = "classify.operation"

	// ComponentKey は処理を行っているパッケージを表します。
	ComponentKey = "classify.component"
)

// データの形状
const (
	// SamplesKey は観測値の数です。
	SamplesKey = "data.samples"

	// ColumnsKey はPooled入力の列数です。
	ColumnsKey = "data.columns"

	// UniqueKey はユニークな値の数です。
	UniqueKey = "data.unique"

	// BatchSizeKey はSessionに渡されたバッチの大きさです。
	BatchSizeKey = "data.batch_size"
)

// 分類結果と探索の状態
const (
	// ClassesKey は形成されたクラス数kです。
	ClassesKey = "classes.k"

	// RequestedClassesKey は要求されたクラス数です。
	RequestedClassesKey = "classes.requested"

	// BinsKey はビン境界です。
	BinsKey = "classes.bins"

	// ADCMKey はクラス中央値周りの絶対偏差の合計です。
	ADCMKey = "fit.adcm"

	// GADFKey は絶対偏差適合度です。
	GADFKey = "fit.gadf"

	// IterationKey は反復探索の反復回数です。
	IterationKey = "search.iterations"

	// RestartsKey は多点スタート探索の試行回数です。
	RestartsKey = "search.restarts"

	// ThresholdKey はGADF探索の閾値です。
	ThresholdKey = "search.threshold"

	// RandomSeedKey は再現性のための乱数シードです。
	RandomSeedKey = "config.random_seed"

	// DurationMsKey は処理時間（ミリ秒）です。
	DurationMsKey = "perf.duration_ms"
)

// エラーと警告のコンテキスト
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// 標準値
const (
	OperationFit     = "fit"
	OperationUpdate  = "update"
	OperationFindBin = "find_bin"
	OperationSearch  = "search"
	OperationPool    = "pool"

	ErrorNotFitted    = "NOT_FITTED"
	ErrorInvalidInput = "INVALID_INPUT"
	ErrorConvergence  = "CONVERGENCE_FAILURE"
)
