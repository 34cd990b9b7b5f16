// Package cluster は1次元データのk-meansクラスタリングを提供します。
// NaturalBreaksはこれを用いて、k-means++初期化からの多点スタート探索で境界を求めます。
package cluster

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

// Scorer は1回の実行結果を評価する関数です。値が小さいほど良い分割とみなします。
type Scorer func(x []float64, labels []int, k int) float64

// KMeans は1次元k-meansクラスタリング
// Lloydの反復をk-means++で初期化し、nInit回の実行のうちスコアが最小のものを採用する
type KMeans struct {
	// ハイパーパラメータ
	nClusters   int     // クラスタ数
	nInit       int     // 異なる初期化での実行回数
	maxIter     int     // 1回の実行あたりの最大イテレーション数
	tol         float64 // 中心の移動量による収束判定の許容誤差
	randomState int64   // 乱数シード
	scorer      Scorer  // 実行結果の評価関数（nilならinertia）

	// 学習結果
	centers_   []float64 // 昇順のクラスタ中心（空クラスタは除外）
	labels_    []int     // 各サンプルのクラスタラベル（中心の昇順に対応）
	score_     float64   // 採用した実行のスコア
	inertia_   float64   // 採用した実行のクラスタ内平方和
	nIter_     int       // 採用した実行のイテレーション数
	converged_ bool      // 採用した実行が収束したか
	fitted     bool

	mu  sync.RWMutex
	rng *rand.Rand
}

// KMeansOption はKMeansの設定オプション
type KMeansOption func(*KMeans)

// NewKMeans は新しいKMeansを作成
func NewKMeans(options ...KMeansOption) *KMeans {
	km := &KMeans{
		nClusters: 5,
		nInit:     10,
		maxIter:   300,
		tol:       1e-10,
	}
	for _, opt := range options {
		opt(km)
	}
	km.rng = rand.New(rand.NewSource(km.randomState))
	return km
}

// WithKMeansNClusters はクラスタ数を設定
func WithKMeansNClusters(n int) KMeansOption {
	return func(km *KMeans) {
		km.nClusters = n
	}
}

// WithKMeansNInit は初期化を変えて実行する回数を設定
func WithKMeansNInit(n int) KMeansOption {
	return func(km *KMeans) {
		if n > 0 {
			km.nInit = n
		}
	}
}

// WithKMeansMaxIter は最大イテレーション数を設定
func WithKMeansMaxIter(maxIter int) KMeansOption {
	return func(km *KMeans) {
		if maxIter > 0 {
			km.maxIter = maxIter
		}
	}
}

// WithKMeansRandomState は乱数シードを設定
func WithKMeansRandomState(seed int64) KMeansOption {
	return func(km *KMeans) {
		km.randomState = seed
	}
}

// WithKMeansTol は収束判定の許容誤差を設定
func WithKMeansTol(tol float64) KMeansOption {
	return func(km *KMeans) {
		km.tol = tol
	}
}

// WithKMeansScorer は実行結果の評価関数を設定
func WithKMeansScorer(s Scorer) KMeansOption {
	return func(km *KMeans) {
		km.scorer = s
	}
}

type run struct {
	centers   []float64
	labels    []int
	score     float64
	inertia   float64
	nIter     int
	converged bool
}

// Fit はxをクラスタリングする
func (km *KMeans) Fit(x []float64) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.nClusters < 1 {
		return errors.NewValidationError("nClusters", "must be at least 1", km.nClusters)
	}
	if len(x) < km.nClusters {
		return errors.NewValidationError("x", "fewer samples than clusters", map[string]int{
			"samples":  len(x),
			"clusters": km.nClusters,
		})
	}

	var best *run
	for i := 0; i < km.nInit; i++ {
		r := km.fitSingleRun(x)
		if best == nil || r.score < best.score {
			best = r
		}
	}

	km.centers_ = best.centers
	km.labels_ = best.labels
	km.score_ = best.score
	km.inertia_ = best.inertia
	km.nIter_ = best.nIter
	km.converged_ = best.converged
	km.fitted = true
	return nil
}

// fitSingleRun は単一回のLloyd反復を実行
func (km *KMeans) fitSingleRun(x []float64) *run {
	centers := km.initKMeansPlusPlus(x)
	labels := make([]int, len(x))
	for i := range labels {
		labels[i] = -1
	}

	r := &run{}
	for iter := 1; iter <= km.maxIter; iter++ {
		r.nIter = iter
		changed := false
		for i, v := range x {
			c := nearest(v, centers)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}

		sums := make([]float64, len(centers))
		counts := make([]int, len(centers))
		for i, c := range labels {
			sums[c] += x[i]
			counts[c]++
		}
		shift := 0.0
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			next := sums[c] / float64(counts[c])
			shift = math.Max(shift, math.Abs(next-centers[c]))
			centers[c] = next
		}

		if !changed || shift <= km.tol {
			r.converged = true
			break
		}
	}

	r.centers, r.labels = compact(centers, labels)
	r.inertia = inertia(x, r.centers, r.labels)
	if km.scorer != nil {
		r.score = km.scorer(x, r.labels, len(r.centers))
	} else {
		r.score = r.inertia
	}
	return r
}

// initKMeansPlusPlus はk-means++初期化を実行
func (km *KMeans) initKMeansPlusPlus(x []float64) []float64 {
	centers := make([]float64, 0, km.nClusters)
	centers = append(centers, x[km.rng.Intn(len(x))])

	distances := make([]float64, len(x))
	for c := 1; c < km.nClusters; c++ {
		total := 0.0
		for i, v := range x {
			d := v - centers[nearest(v, centers)]
			distances[i] = d * d
			total += distances[i]
		}

		// 全てのサンプルが既存の中心と一致する場合は一様に選ぶ
		if total == 0 {
			centers = append(centers, x[km.rng.Intn(len(x))])
			continue
		}

		target := km.rng.Float64() * total
		cumSum := 0.0
		selected := len(x) - 1
		for i, d := range distances {
			cumSum += d
			if d > 0 && cumSum >= target {
				selected = i
				break
			}
		}
		centers = append(centers, x[selected])
	}
	return centers
}

// compact は空クラスタを除外し、ラベルを中心の昇順に振り直す
func compact(centers []float64, labels []int) ([]float64, []int) {
	used := make([]bool, len(centers))
	for _, c := range labels {
		used[c] = true
	}
	order := make([]int, 0, len(centers))
	for c := range centers {
		if used[c] {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return centers[order[i]] < centers[order[j]] })

	remap := make([]int, len(centers))
	sorted := make([]float64, len(order))
	for newID, oldID := range order {
		remap[oldID] = newID
		sorted[newID] = centers[oldID]
	}
	out := make([]int, len(labels))
	for i, c := range labels {
		out[i] = remap[c]
	}
	return sorted, out
}

// Predict は各値に最も近い中心のラベルを返す
func (km *KMeans) Predict(x []float64) ([]int, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	if !km.fitted {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = nearest(v, km.centers_)
	}
	return out, nil
}

// Centers は昇順のクラスタ中心を返す
func (km *KMeans) Centers() []float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return append([]float64(nil), km.centers_...)
}

// Labels は各サンプルのクラスタラベルを返す
func (km *KMeans) Labels() []int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return append([]int(nil), km.labels_...)
}

// K は空でないクラスタの数を返す
func (km *KMeans) K() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.centers_)
}

// Score は採用した実行のスコアを返す
func (km *KMeans) Score() float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.score_
}

// Inertia は採用した実行のクラスタ内平方和を返す
func (km *KMeans) Inertia() float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.inertia_
}

// NIterations は採用した実行のイテレーション数を返す
func (km *KMeans) NIterations() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.nIter_
}

// Converged は採用した実行が最大イテレーション数より前に収束したかを返す
func (km *KMeans) Converged() bool {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.converged_
}

// nearest は最近傍の中心を返す。同距離の場合は小さい添字を優先する
func nearest(v float64, centers []float64) int {
	best := 0
	minDist := math.Inf(1)
	for c, center := range centers {
		if d := math.Abs(v - center); d < minDist {
			minDist = d
			best = c
		}
	}
	return best
}

func inertia(x, centers []float64, labels []int) float64 {
	total := 0.0
	for i, v := range x {
		d := v - centers[labels[i]]
		total += d * d
	}
	return total
}
