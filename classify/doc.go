// Package classify は数値の観測値を順序付きのクラスに分類します。
// 主な用途はコロプレス地図の階級区分です。
//
// 各スキームはオプションを持つ値型で、Fit に渡すと境界（Bins）、各観測値のクラス（Yb）、
// 度数（Counts）と適合度（ADCM、TSS、GADF）を持つ不変の Classifier が得られます。
//
//	c, err := classify.Fit(y, classify.Quantiles{K: 5})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(c)
//
// 境界 bins[i] はクラスiの上限（閉区間側）で、最後の境界は常に最大値以上です。
// ストリーミング用途には Session、複数列の共通区分には Pooled、
// クラス数の探索には GADFSearch と KClassifiers を使います。
//
// 乱数を使うスキームは Seed フィールドで再現性を制御します。Seed が同じなら結果も同じです。
package classify
