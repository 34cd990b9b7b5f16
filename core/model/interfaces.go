// Package model は分類器が満たすべき能力ごとのインターフェースと、
// ストリーミング分類のための状態管理を提供します。
package model

// Binner は観測値を順序付きクラスに割り当てた結果を公開します。
// 不変条件: len(Bins()) == len(Counts()) == K()、Bins() は非減少、
// sum(Counts()) は観測数に等しく、FindBin(観測値) == Yb()。
type Binner interface {
	// Bins はクラスの上限境界（閉区間側）を昇順で返します。
	Bins() []float64

	// Yb は各観測値のクラス番号を返します。
	Yb() []int

	// Counts はクラスごとの観測数を返します。
	Counts() []int

	// K はクラス数を返します。
	K() int

	// FindBin は任意の値に対するクラス番号を返します。最後の境界を超える値は最後のクラスに丸められます。
	FindBin(values []float64) []int
}

// Summarizer exposes goodness-of-fit diagnostics of a partition.
type Summarizer interface {
	ADCM() float64
	TSS() float64
	GADF() float64
}

// Classification is a named, fitted partition with diagnostics.
type Classification interface {
	Binner
	Summarizer
	Name() string
}
