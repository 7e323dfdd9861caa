package segtree

import (
	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

// LazySegmentTree 支持区间更新的懒惰线段树。
//
// 每个内部节点额外持有一个待下推增量与 pending 标记。
// 不变量：节点聚合值总是已经反映其自身 pending 增量对整个区间的作用；
// 子节点尚未吸收该增量，读取子节点前必须先下推。
// 区间更新与查询均为 O(log N)。
type LazySegmentTree[V, D any] struct {
	alg  monoid.Algebra[V, D]
	tree []V
	pend []D
	has  []bool
	n    int
}

// NewLazy 创建一棵逻辑数组为 n 个 fill 的懒惰线段树。
func NewLazy[V, D any](alg monoid.Algebra[V, D], n int, fill V) (*LazySegmentTree[V, D], error) {
	if n <= 0 {
		return nil, xerrors.ErrEmptyStructure.With("n=%d", n)
	}
	st := newLazy(alg, n)
	st.build(1, 0, n-1, func(int) V { return fill })
	return st, nil
}

// NewLazyFromSlice 以给定切片为逻辑数组创建懒惰线段树。
func NewLazyFromSlice[V, D any](alg monoid.Algebra[V, D], values []V) (*LazySegmentTree[V, D], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyStructure.With("empty values")
	}
	st := newLazy(alg, len(values))
	st.build(1, 0, st.n-1, func(i int) V { return values[i] })
	return st, nil
}

func newLazy[V, D any](alg monoid.Algebra[V, D], n int) *LazySegmentTree[V, D] {
	return &LazySegmentTree[V, D]{
		alg:  alg,
		tree: make([]V, 4*n),
		pend: make([]D, 4*n),
		has:  make([]bool, 4*n),
		n:    n,
	}
}

func (st *LazySegmentTree[V, D]) build(node, start, end int, leaf func(int) V) {
	if start == end {
		st.tree[node] = leaf(start)
		return
	}
	mid := (start + end) / 2
	st.build(2*node, start, mid, leaf)
	st.build(2*node+1, mid+1, end, leaf)
	st.tree[node] = st.alg.Combine(st.tree[2*node], st.tree[2*node+1])
}

// Len 返回逻辑数组大小。
func (st *LazySegmentTree[V, D]) Len() int {
	return st.n
}

// absorb 将增量 d 作用到 node 上：聚合值立即反映，增量累入 pending。
func (st *LazySegmentTree[V, D]) absorb(node, length int, d D) {
	st.tree[node] = st.alg.Apply(st.tree[node], d, length)
	if st.has[node] {
		st.pend[node] = st.alg.CombineDeltas(st.pend[node], d)
	} else {
		st.pend[node] = d
		st.has[node] = true
	}
}

// push 将 node 的 pending 增量下推给两个子节点，不再继续递归。
func (st *LazySegmentTree[V, D]) push(node, start, end int) {
	if !st.has[node] {
		return
	}
	mid := (start + end) / 2
	st.absorb(2*node, mid-start+1, st.pend[node])
	st.absorb(2*node+1, end-mid, st.pend[node])
	st.has[node] = false
}

// Get 返回下标 idx 处的元素值。
func (st *LazySegmentTree[V, D]) Get(idx int) (V, error) {
	if idx < 0 || idx >= st.n {
		var zero V
		return zero, xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, st.n)
	}
	return st.query(1, 0, st.n-1, idx, idx), nil
}

// Update 区间更新：对 lo ≤ i ≤ hi 的每个 a[i] 作用增量 d。
// lo > hi 视为空区间，直接返回。
func (st *LazySegmentTree[V, D]) Update(lo, hi int, d D) error {
	if lo > hi {
		return nil
	}
	if lo < 0 || hi >= st.n {
		return xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, st.n)
	}
	st.update(1, 0, st.n-1, lo, hi, d)
	return nil
}

func (st *LazySegmentTree[V, D]) update(node, start, end, lo, hi int, d D) {
	if hi < start || end < lo {
		return
	}
	if lo <= start && end <= hi {
		st.absorb(node, end-start+1, d)
		return
	}
	st.push(node, start, end)
	mid := (start + end) / 2
	st.update(2*node, start, mid, lo, hi, d)
	st.update(2*node+1, mid+1, end, lo, hi, d)
	st.tree[node] = st.alg.Combine(st.tree[2*node], st.tree[2*node+1])
}

// Query 区间查询，返回 Combine(a[lo], ..., a[hi])。
// lo > hi 视为空区间，返回单位元。
func (st *LazySegmentTree[V, D]) Query(lo, hi int) (V, error) {
	var zero V
	if lo > hi {
		return st.alg.Identity(), nil
	}
	if lo < 0 || hi >= st.n {
		return zero, xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, st.n)
	}
	return st.query(1, 0, st.n-1, lo, hi), nil
}

func (st *LazySegmentTree[V, D]) query(node, start, end, lo, hi int) V {
	if hi < start || end < lo {
		return st.alg.Identity()
	}
	if lo <= start && end <= hi {
		return st.tree[node]
	}
	st.push(node, start, end)
	mid := (start + end) / 2
	left := st.query(2*node, start, mid, lo, hi)
	right := st.query(2*node+1, mid+1, end, lo, hi)
	return st.alg.Combine(left, right)
}

// Snapshot 导出当前可观测的逻辑数组，O(N)。
func (st *LazySegmentTree[V, D]) Snapshot() []V {
	out := make([]V, st.n)
	st.snapshot(1, 0, st.n-1, out)
	return out
}

func (st *LazySegmentTree[V, D]) snapshot(node, start, end int, out []V) {
	if start == end {
		out[start] = st.tree[node]
		return
	}
	st.push(node, start, end)
	mid := (start + end) / 2
	st.snapshot(2*node, start, mid, out)
	st.snapshot(2*node+1, mid+1, end, out)
}
