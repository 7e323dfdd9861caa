// Package segtree 提供共享同一幺半群代数的区间查询结构：
// 单点更新线段树、懒惰区间更新线段树、分块 (sqrt) 分解以及稀疏二维线段树。
// 所有结构对外呈现同一个逻辑数组 a[0..n-1]，闭区间语义。
package segtree

import (
	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

// SegmentTree 单点更新线段树。
// 节点按隐式二叉堆布局存储，根为 1，节点 i 的子节点为 2i 与 2i+1，
// 4n 的后备数组足够容纳整棵树。更新与查询均为 O(log N)。
type SegmentTree[V, D any] struct {
	alg  monoid.Algebra[V, D]
	tree []V // 节点聚合值。
	n    int // 逻辑数组大小。
}

// New 创建一棵逻辑数组为 n 个 fill 的线段树。
func New[V, D any](alg monoid.Algebra[V, D], n int, fill V) (*SegmentTree[V, D], error) {
	if n <= 0 {
		return nil, xerrors.ErrEmptyStructure.With("n=%d", n)
	}
	st := &SegmentTree[V, D]{
		alg:  alg,
		tree: make([]V, 4*n),
		n:    n,
	}
	st.build(1, 0, n-1, func(int) V { return fill })
	return st, nil
}

// NewFromSlice 以给定切片为逻辑数组创建线段树，O(N) 构建。
func NewFromSlice[V, D any](alg monoid.Algebra[V, D], values []V) (*SegmentTree[V, D], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyStructure.With("empty values")
	}
	st := &SegmentTree[V, D]{
		alg:  alg,
		tree: make([]V, 4*len(values)),
		n:    len(values),
	}
	st.build(1, 0, st.n-1, func(i int) V { return values[i] })
	return st, nil
}

// build 递归构建，leaf 给出每个下标的初始值。
func (st *SegmentTree[V, D]) build(node, start, end int, leaf func(int) V) {
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
func (st *SegmentTree[V, D]) Len() int {
	return st.n
}

// Get 返回下标 idx 处的元素值。
func (st *SegmentTree[V, D]) Get(idx int) (V, error) {
	if idx < 0 || idx >= st.n {
		var zero V
		return zero, xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, st.n)
	}
	return st.get(1, 0, st.n-1, idx), nil
}

func (st *SegmentTree[V, D]) get(node, start, end, idx int) V {
	if start == end {
		return st.tree[node]
	}
	mid := (start + end) / 2
	if idx <= mid {
		return st.get(2*node, start, mid, idx)
	}
	return st.get(2*node+1, mid+1, end, idx)
}

// Update 单点更新：a[idx] = Apply(a[idx], d, 1)。
func (st *SegmentTree[V, D]) Update(idx int, d D) error {
	if idx < 0 || idx >= st.n {
		return xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, st.n)
	}
	st.update(1, 0, st.n-1, idx, d)
	return nil
}

func (st *SegmentTree[V, D]) update(node, start, end, idx int, d D) {
	if start == end {
		st.tree[node] = st.alg.Point(st.tree[node], d)
		return
	}
	mid := (start + end) / 2
	if idx <= mid {
		st.update(2*node, start, mid, idx, d)
	} else {
		st.update(2*node+1, mid+1, end, idx, d)
	}
	st.tree[node] = st.alg.Combine(st.tree[2*node], st.tree[2*node+1])
}

// Query 区间查询，返回 Combine(a[lo], ..., a[hi])。
// lo > hi 视为空区间，返回单位元。
func (st *SegmentTree[V, D]) Query(lo, hi int) (V, error) {
	var zero V
	if lo > hi {
		return st.alg.Identity(), nil
	}
	if lo < 0 || hi >= st.n {
		return zero, xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, st.n)
	}
	return st.query(1, 0, st.n-1, lo, hi), nil
}

func (st *SegmentTree[V, D]) query(node, start, end, lo, hi int) V {
	// 当前节点区间与查询区间完全不重叠。
	if hi < start || end < lo {
		return st.alg.Identity()
	}
	// 当前节点区间被查询区间完全覆盖。
	if lo <= start && end <= hi {
		return st.tree[node]
	}
	mid := (start + end) / 2
	left := st.query(2*node, start, mid, lo, hi)
	right := st.query(2*node+1, mid+1, end, lo, hi)
	return st.alg.Combine(left, right)
}

// Snapshot 导出当前可观测的逻辑数组，O(N)。
func (st *SegmentTree[V, D]) Snapshot() []V {
	out := make([]V, st.n)
	st.snapshot(1, 0, st.n-1, out)
	return out
}

func (st *SegmentTree[V, D]) snapshot(node, start, end int, out []V) {
	if start == end {
		out[start] = st.tree[node]
		return
	}
	mid := (start + end) / 2
	st.snapshot(2*node, start, mid, out)
	st.snapshot(2*node+1, mid+1, end, out)
}
