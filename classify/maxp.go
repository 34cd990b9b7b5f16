package classify

import (
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
	"github.com/YuminosukeSato/mapclassify/pkg/log"
	"github.com/YuminosukeSato/mapclassify/preprocessing"
)

func maxP(fc *fitContext, s MaxP) (*partition, error) {
	n := fc.n()
	if err := preprocessing.CheckK(s.K, n); err != nil {
		return nil, err
	}
	floor := s.Floor
	if floor == 0 {
		floor = DefaultFloor
	}
	if floor < 0 {
		return nil, errors.NewValidationError("floor", "must be positive", s.Floor)
	}
	if s.K*floor > n {
		return nil, errors.NewValidationError("floor", "k classes of at least floor observations need more data", map[string]int{
			"k": s.K, "floor": floor, "n": n,
		})
	}
	// 同じ値は同じクラスに入るので、値の並びの単位で下限を満たせるかを確かめる
	runs := floorStarts(fc.sorted, floor)
	if len(runs) < s.K {
		return nil, errors.NewValidationError("floor", "tied values leave fewer than k classes of at least floor observations", map[string]int{
			"k": s.K, "floor": floor, "classes": len(runs),
		})
	}
	initial, err := iterLimit(s.Initial, DefaultMaxPInitial)
	if err != nil {
		return nil, errors.Wrap(err, "initial")
	}
	maxIter, err := iterLimit(s.MaxIter, DefaultMaxPSwapMaxIter)
	if err != nil {
		return nil, err
	}

	rng := newRand(s.Seed)
	seeds := maxPSeeds(fc.sorted, s.K)

	var best *rangePartition
	bestSS := math.Inf(1)
	for i := 0; i < initial; i++ {
		p := newRangePartition(fc.sorted, snapStarts(fc.sorted, growRegions(n, seeds, rng)))
		if !p.feasible(floor) {
			continue
		}
		if ss := p.total(); ss < bestSS {
			best, bestSS = p, ss
		}
	}
	if best == nil {
		fc.logger.Debug("no grown partition satisfies the floor, starting from greedy floor partition",
			log.RestartsKey, initial,
			log.ClassesKey, s.K,
		)
		// 先頭k-1個の貪欲なクラスを残し、残りを最後のクラスにまとめる
		best = newRangePartition(fc.sorted, append(slices.Clone(runs[:s.K]), n))
	}

	it, converged := swapBoundaries(best, floor, maxIter, rng)
	if !converged {
		errors.Warn(errors.NewConvergenceWarning(MethodMaxP.String(), it, "boundary swaps still reduce the within-class sum of squares"))
	}
	return &partition{bins: best.upperEdges(), iterations: it}, nil
}

// maxPSeeds は各分位点に最も近い値の位置を種とします。
// 種は狭義単調増加に補正され、全てのクラスが少なくとも1つの位置を持てるようにします。
func maxPSeeds(sorted []float64, k int) []int {
	n := len(sorted)
	seeds := make([]int, k)
	for i := range seeds {
		q := preprocessing.Percentile(sorted, 100*float64(i+1)/float64(k))
		seeds[i] = floats.NearestIdx(sorted, q)
		if i > 0 && seeds[i] <= seeds[i-1] {
			seeds[i] = seeds[i-1] + 1
		}
	}
	for i := k - 1; i >= 0; i-- {
		seeds[i] = min(seeds[i], n-k+i)
		if i < k-1 {
			seeds[i] = min(seeds[i], seeds[i+1]-1)
		}
	}
	return seeds
}

// growRegions は種をランダムな順に選び、それぞれ隣の未割り当て位置がなくなるまで
// 左右に1つずつ広げます。返り値は各クラスの開始位置（末尾にn）です。
func growRegions(n int, seeds []int, rng *rand.Rand) []int {
	k := len(seeds)
	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}
	lo := slices.Clone(seeds)
	hi := slices.Clone(seeds)
	for c, s := range seeds {
		owner[s] = c
	}
	for _, c := range rng.Perm(k) {
		for {
			grew := false
			if lo[c] > 0 && owner[lo[c]-1] == -1 {
				lo[c]--
				owner[lo[c]] = c
				grew = true
			}
			if hi[c] < n-1 && owner[hi[c]+1] == -1 {
				hi[c]++
				owner[hi[c]] = c
				grew = true
			}
			if !grew {
				break
			}
		}
	}
	starts := make([]int, k+1)
	copy(starts, lo)
	starts[k] = n
	return starts
}

// swapBoundaries はクラスをランダムな順に巡り、隣接クラスとの境界の値を
// 平方和が厳密に減る限り移動します。1巡で移動がなければ収束です。
func swapBoundaries(p *rangePartition, floor, maxIter int, rng *rand.Rand) (int, bool) {
	k := p.k()
	for it := 1; it <= maxIter; it++ {
		moves := 0
		for _, c := range rng.Perm(k) {
			for {
				moved := false
				if c > 0 && p.moveUp(c-1, floor) {
					moved = true
				}
				if c < k-1 && p.moveDown(c, floor) {
					moved = true
				}
				if !moved {
					break
				}
				moves++
			}
		}
		if moves == 0 {
			return it, true
		}
	}
	return maxIter, false
}
