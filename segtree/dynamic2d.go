package segtree

import (
	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

// inner2D 列方向动态线段树节点，用池下标模拟指针，0 表示缺失。
type inner2D[V any] struct {
	left, right int
	val         V      // 本矩形内所有“已写入单元”的合并值（count > 0 时有效）。
	count       uint64 // 本矩形内已写入的单元数。
}

// outer2D 行方向动态线段树节点，持有一棵按列索引的内层树。
type outer2D struct {
	left, right int
	inner       int // 内层树的根，0 表示尚未物化。
}

// Dynamic2D 稀疏二维线段树：外层按行、内层按列的“线段树套线段树”。
//
// 逻辑网格可以大到 10⁹×10⁹：节点在首次触达时才物化（静态池模拟动态节点），
// 未写入的单元一律视为默认值 def。每个节点记录矩形内已写入单元数，
// 查询时若矩形尚未被完全写入，则把 def 按一次并入结果。
// 因此要求 Combine 幂等（min/max 等），或 def 等于单位元。
//
// 不变量：外层节点的内层树表示其行区间内所有行的按列合并。
// 点更新 O(log R · log C)，矩形查询 O(log R · log C)。
type Dynamic2D[V, D any] struct {
	alg        monoid.Algebra[V, D]
	def        V
	rows, cols int
	outers     []outer2D
	inners     []inner2D[V]
	root       int
}

// NewDynamic2D 创建 rows×cols 的稀疏二维线段树，未写入单元取默认值 def。
func NewDynamic2D[V, D any](alg monoid.Algebra[V, D], rows, cols int, def V) (*Dynamic2D[V, D], error) {
	if rows <= 0 || cols <= 0 {
		return nil, xerrors.ErrEmptyStructure.With("rows=%d cols=%d", rows, cols)
	}
	t := &Dynamic2D[V, D]{
		alg:    alg,
		def:    def,
		rows:   rows,
		cols:   cols,
		outers: make([]outer2D, 1, 64), // 0 号节点作为空节点。
		inners: make([]inner2D[V], 1, 64),
	}
	t.root = t.newOuter()
	return t, nil
}

func (t *Dynamic2D[V, D]) newOuter() int {
	t.outers = append(t.outers, outer2D{})
	return len(t.outers) - 1
}

func (t *Dynamic2D[V, D]) newInner() int {
	t.inners = append(t.inners, inner2D[V]{})
	return len(t.inners) - 1
}

// Rows 返回逻辑行数。
func (t *Dynamic2D[V, D]) Rows() int { return t.rows }

// Cols 返回逻辑列数。
func (t *Dynamic2D[V, D]) Cols() int { return t.cols }

// mergePresent 合并两个带写入计数的部分结果，count 为 0 的一侧不参与合并。
func (t *Dynamic2D[V, D]) mergePresent(v1 V, c1 uint64, v2 V, c2 uint64) (V, uint64) {
	switch {
	case c1 == 0:
		return v2, c2
	case c2 == 0:
		return v1, c1
	default:
		return t.alg.Combine(v1, v2), c1 + c2
	}
}

// Update 点更新：对单元 (r, c) 作用增量 d，未写入单元以 def 为基值。
func (t *Dynamic2D[V, D]) Update(r, c int, d D) error {
	if r < 0 || r >= t.rows || c < 0 || c >= t.cols {
		return xerrors.ErrBadCoordinates.With("r=%d c=%d rows=%d cols=%d", r, c, t.rows, t.cols)
	}
	t.updateOuter(t.root, 0, t.rows-1, r, c, d)
	return nil
}

func (t *Dynamic2D[V, D]) updateOuter(idx, lo, hi, r, c int, d D) {
	if lo == hi {
		// 行叶子：对单元格本身作用增量。
		base := t.def
		if cur, cnt := t.innerPoint(t.outers[idx].inner, 0, t.cols-1, c); cnt > 0 {
			base = cur
		}
		t.outers[idx].inner = t.innerSet(t.outers[idx].inner, 0, t.cols-1, c, t.alg.Point(base, d), 1)
		return
	}
	mid := (lo + hi) / 2
	if r <= mid {
		if t.outers[idx].left == 0 {
			t.outers[idx].left = t.newOuter()
		}
		t.updateOuter(t.outers[idx].left, lo, mid, r, c, d)
	} else {
		if t.outers[idx].right == 0 {
			t.outers[idx].right = t.newOuter()
		}
		t.updateOuter(t.outers[idx].right, mid+1, hi, r, c, d)
	}
	// 用两个外层子节点在列 c 的点值重建本节点列树的列 c，
	// 维持“内层树 = 行区间的按列合并”这一不变量。
	lv, lc := t.outerPoint(t.outers[idx].left, c)
	rv, rc := t.outerPoint(t.outers[idx].right, c)
	v, cnt := t.mergePresent(lv, lc, rv, rc)
	t.outers[idx].inner = t.innerSet(t.outers[idx].inner, 0, t.cols-1, c, v, cnt)
}

// outerPoint 读取外层节点在列 c 上的 (合并值, 写入计数)。
func (t *Dynamic2D[V, D]) outerPoint(idx, c int) (V, uint64) {
	if idx == 0 {
		var zero V
		return zero, 0
	}
	return t.innerPoint(t.outers[idx].inner, 0, t.cols-1, c)
}

func (t *Dynamic2D[V, D]) innerPoint(idx, lo, hi, c int) (V, uint64) {
	if idx == 0 {
		var zero V
		return zero, 0
	}
	if lo == hi {
		return t.inners[idx].val, t.inners[idx].count
	}
	mid := (lo + hi) / 2
	if c <= mid {
		return t.innerPoint(t.inners[idx].left, lo, mid, c)
	}
	return t.innerPoint(t.inners[idx].right, mid+1, hi, c)
}

// innerSet 把列 c 的叶子覆写为 (v, count)，按需物化路径，返回（可能新建的）根下标。
func (t *Dynamic2D[V, D]) innerSet(idx, lo, hi, c int, v V, count uint64) int {
	if idx == 0 {
		idx = t.newInner()
	}
	if lo == hi {
		t.inners[idx].val = v
		t.inners[idx].count = count
		return idx
	}
	mid := (lo + hi) / 2
	if c <= mid {
		t.inners[idx].left = t.innerSet(t.inners[idx].left, lo, mid, c, v, count)
	} else {
		t.inners[idx].right = t.innerSet(t.inners[idx].right, mid+1, hi, c, v, count)
	}
	var lv, rv V
	var lc, rc uint64
	if l := t.inners[idx].left; l != 0 {
		lv, lc = t.inners[l].val, t.inners[l].count
	}
	if r := t.inners[idx].right; r != 0 {
		rv, rc = t.inners[r].val, t.inners[r].count
	}
	t.inners[idx].val, t.inners[idx].count = t.mergePresent(lv, lc, rv, rc)
	return idx
}

// Get 返回单元 (r, c) 的值；未写入的单元返回 def。
func (t *Dynamic2D[V, D]) Get(r, c int) (V, error) {
	return t.Query(r, c, r, c)
}

// Query 矩形查询：合并 [r1,r2]×[c1,c2] 内所有单元。
// 矩形中尚未写入的单元以 def 参与合并（按一次并入）。
func (t *Dynamic2D[V, D]) Query(r1, c1, r2, c2 int) (V, error) {
	var zero V
	if r1 < 0 || c1 < 0 || r2 >= t.rows || c2 >= t.cols || r1 > r2 || c1 > c2 {
		return zero, xerrors.ErrBadCoordinates.With("r1=%d c1=%d r2=%d c2=%d rows=%d cols=%d",
			r1, c1, r2, c2, t.rows, t.cols)
	}
	val, count := t.queryOuter(t.root, 0, t.rows-1, r1, r2, c1, c2)
	cells := uint64(r2-r1+1) * uint64(c2-c1+1)
	switch {
	case count == 0:
		return t.def, nil
	case count < cells:
		return t.alg.Combine(val, t.def), nil
	default:
		return val, nil
	}
}

func (t *Dynamic2D[V, D]) queryOuter(idx, lo, hi, r1, r2, c1, c2 int) (V, uint64) {
	var zero V
	if idx == 0 || r2 < lo || hi < r1 {
		return zero, 0
	}
	if r1 <= lo && hi <= r2 {
		return t.innerQuery(t.outers[idx].inner, 0, t.cols-1, c1, c2)
	}
	mid := (lo + hi) / 2
	lv, lc := t.queryOuter(t.outers[idx].left, lo, mid, r1, r2, c1, c2)
	rv, rc := t.queryOuter(t.outers[idx].right, mid+1, hi, r1, r2, c1, c2)
	return t.mergePresent(lv, lc, rv, rc)
}

func (t *Dynamic2D[V, D]) innerQuery(idx, lo, hi, c1, c2 int) (V, uint64) {
	var zero V
	if idx == 0 || c2 < lo || hi < c1 {
		return zero, 0
	}
	if c1 <= lo && hi <= c2 {
		return t.inners[idx].val, t.inners[idx].count
	}
	mid := (lo + hi) / 2
	lv, lc := t.innerQuery(t.inners[idx].left, lo, mid, c1, c2)
	rv, rc := t.innerQuery(t.inners[idx].right, mid+1, hi, c1, c2)
	return t.mergePresent(lv, lc, rv, rc)
}
