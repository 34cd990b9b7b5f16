package classify

import "sort"

// rangePartition は昇順データを連続した区間のクラスに分けた状態です。
// クラスcは sorted[starts[c]:starts[c+1]] を占めます。
// 境界は値が変わる位置にだけ置かれるので、同じ値が2つのクラスにまたがることはありません。
// 累積和によりクラス内平方和を O(1) で計算します。
type rangePartition struct {
	sorted   []float64
	prefix   []float64
	prefixSq []float64
	starts   []int
}

func newRangePartition(sorted []float64, starts []int) *rangePartition {
	n := len(sorted)
	p := &rangePartition{
		sorted:   sorted,
		prefix:   make([]float64, n+1),
		prefixSq: make([]float64, n+1),
		starts:   starts,
	}
	for i, v := range sorted {
		p.prefix[i+1] = p.prefix[i] + v
		p.prefixSq[i+1] = p.prefixSq[i] + v*v
	}
	return p
}

// newRankPartition は順位でほぼ等分したk個のクラスを作ります。余りは下位のクラスに配られます。
// 境界は最も近い値の切れ目に寄せられます。sortedはk種類以上の値を持つこと。
func newRankPartition(sorted []float64, k int) *rangePartition {
	return newRangePartition(sorted, snapStarts(sorted, rankStarts(len(sorted), k)))
}

func rankStarts(n, k int) []int {
	starts := make([]int, k+1)
	size, rem := n/k, n%k
	for c := 0; c <= k; c++ {
		starts[c] = c*size + min(c, rem)
	}
	return starts
}

// valueBreaks は sorted[p-1] != sorted[p] となる位置pを昇順で返します。
func valueBreaks(sorted []float64) []int {
	var out []int
	for p := 1; p < len(sorted); p++ {
		if sorted[p] != sorted[p-1] {
			out = append(out, p)
		}
	}
	return out
}

// snapStarts は各クラスの開始位置を最も近い値の切れ目に寄せます。
// 結果は狭義単調増加で、全てのクラスが空になりません。切れ目はk-1個以上必要です。
func snapStarts(sorted []float64, starts []int) []int {
	k := len(starts) - 1
	breaks := valueBreaks(sorted)
	m := len(breaks)

	idx := make([]int, k)
	for c := 1; c < k; c++ {
		idx[c] = nearestBreak(breaks, starts[c])
		if c > 1 && idx[c] <= idx[c-1] {
			idx[c] = idx[c-1] + 1
		}
	}
	for c := k - 1; c >= 1; c-- {
		idx[c] = min(idx[c], m-k+c)
		if c < k-1 {
			idx[c] = min(idx[c], idx[c+1]-1)
		}
	}

	out := make([]int, k+1)
	for c := 1; c < k; c++ {
		out[c] = breaks[idx[c]]
	}
	out[k] = len(sorted)
	return out
}

// nearestBreak はposに最も近い切れ目の添字を返します。同距離なら前の切れ目。
func nearestBreak(breaks []int, pos int) int {
	i := sort.SearchInts(breaks, pos)
	switch {
	case i == len(breaks):
		return i - 1
	case i > 0 && pos-breaks[i-1] <= breaks[i]-pos:
		return i - 1
	}
	return i
}

// floorStarts は値の切れ目だけで区切り、先頭から順にfloor個以上たまった時点でクラスを閉じます。
// floor個に満たない末尾は直前のクラスに併合されます。返り値は各クラスの開始位置で、
// その数がfloor個以上のクラスを作れる最大数です。
func floorStarts(sorted []float64, floor int) []int {
	starts := []int{0}
	size := 0
	for i := range sorted {
		if size >= floor && sorted[i] != sorted[i-1] {
			starts = append(starts, i)
			size = 0
		}
		size++
	}
	if size < floor && len(starts) > 1 {
		starts = starts[:len(starts)-1]
	}
	return starts
}

// runStart はposを含む同値の並びの先頭位置を返します。
func (p *rangePartition) runStart(pos int) int {
	for pos > 0 && p.sorted[pos-1] == p.sorted[pos] {
		pos--
	}
	return pos
}

// runEnd はposを含む同値の並びの直後の位置を返します。
func (p *rangePartition) runEnd(pos int) int {
	for pos+1 < len(p.sorted) && p.sorted[pos+1] == p.sorted[pos] {
		pos++
	}
	return pos + 1
}

func (p *rangePartition) k() int { return len(p.starts) - 1 }

func (p *rangePartition) size(c int) int { return p.starts[c+1] - p.starts[c] }

// ss は sorted[lo:hi] の平均周りの二乗和です。
func (p *rangePartition) ss(lo, hi int) float64 {
	if hi-lo < 2 {
		return 0
	}
	sum := p.prefix[hi] - p.prefix[lo]
	v := p.prefixSq[hi] - p.prefixSq[lo] - sum*sum/float64(hi-lo)
	if v < 0 {
		return 0
	}
	return v
}

func (p *rangePartition) classSS(c int) float64 {
	return p.ss(p.starts[c], p.starts[c+1])
}

func (p *rangePartition) total() float64 {
	var t float64
	for c := 0; c < p.k(); c++ {
		t += p.classSS(c)
	}
	return t
}

func (p *rangePartition) feasible(floor int) bool {
	for c := 0; c < p.k(); c++ {
		if p.size(c) < floor {
			return false
		}
	}
	return true
}

// moveUp はクラスiの最大値（同じ値の並び全体）をクラスi+1へ移します。
// クラスiにfloor個以上が残り、2クラスの平方和が厳密に減る場合だけ移動します。
func (p *rangePartition) moveUp(i, floor int) bool {
	lo, mid, hi := p.starts[i], p.starts[i+1], p.starts[i+2]
	next := p.runStart(mid - 1)
	if next-lo < floor {
		return false
	}
	before := p.ss(lo, mid) + p.ss(mid, hi)
	after := p.ss(lo, next) + p.ss(next, hi)
	if !improves(before, after) {
		return false
	}
	p.starts[i+1] = next
	return true
}

// moveDown はクラスi+1の最小値（同じ値の並び全体）をクラスiへ移します。
func (p *rangePartition) moveDown(i, floor int) bool {
	lo, mid, hi := p.starts[i], p.starts[i+1], p.starts[i+2]
	next := p.runEnd(mid)
	if hi-next < floor {
		return false
	}
	before := p.ss(lo, mid) + p.ss(mid, hi)
	after := p.ss(lo, next) + p.ss(next, hi)
	if !improves(before, after) {
		return false
	}
	p.starts[i+1] = next
	return true
}

// improve は隣接するクラスの組を下から順に試し、最初に成功した移動で止まります。
func (p *rangePartition) improve(try func(i int) bool) bool {
	for i := 0; i+1 < p.k(); i++ {
		if try(i) {
			return true
		}
	}
	return false
}

// upperEdges は各クラスの最大値を返します。
func (p *rangePartition) upperEdges() []float64 {
	edges := make([]float64, p.k())
	for c := range edges {
		edges[c] = p.sorted[p.starts[c+1]-1]
	}
	return edges
}

// improves は丸め誤差より大きく平方和が減るかを判定します。
func improves(before, after float64) bool {
	return after < before-1e-12*(1+before)
}
