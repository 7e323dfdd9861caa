// Package treap 提供按插入位置索引的隐式树堆 (implicit treap)。
// 它对外呈现与线段树一致的逻辑数组和查询/更新代数，
// 并额外支持 O(log N) 的任意位置插入、删除与子区间翻转。
package treap

import (
	"math/rand/v2"

	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

// node 树堆节点。优先级在插入时随机采样一次，期望树高 O(log N)。
type node[V, D any] struct {
	left, right *node[V, D]
	pri         uint64
	size        int  // 子树大小。
	val         V    // 本槽位的值。
	agg         V    // 子树聚合值，已反映本节点的 pending 增量。
	pend        D    // 待下推增量。
	hasPend     bool
	rev         bool // 子区间翻转标记，与增量在同一个下推钩子里处理。
}

// Treap 隐式树堆。中序遍历顺序即逻辑数组顺序。
//
// Reverse 与聚合共存要求 Combine 满足交换律；
// 非交换幺半群下翻转后的聚合值没有意义。
type Treap[V, D any] struct {
	alg  monoid.Algebra[V, D]
	root *node[V, D]
}

// New 创建一棵空树堆。
func New[V, D any](alg monoid.Algebra[V, D]) *Treap[V, D] {
	return &Treap[V, D]{alg: alg}
}

// NewFromSlice 依次 PushBack 给定切片的元素，O(N log N)。
func NewFromSlice[V, D any](alg monoid.Algebra[V, D], values []V) *Treap[V, D] {
	t := New[V, D](alg)
	for _, v := range values {
		t.PushBack(v)
	}
	return t
}

// Len 返回逻辑数组大小。
func (t *Treap[V, D]) Len() int {
	return t.size(t.root)
}

func (t *Treap[V, D]) size(n *node[V, D]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (t *Treap[V, D]) aggOf(n *node[V, D]) V {
	if n == nil {
		return t.alg.Identity()
	}
	return n.agg
}

// absorb 将增量 d 作用到整棵子树：值与聚合立即反映，增量累入 pending。
func (t *Treap[V, D]) absorb(n *node[V, D], d D) {
	if n == nil {
		return
	}
	n.val = t.alg.Point(n.val, d)
	n.agg = t.alg.Apply(n.agg, d, n.size)
	if n.hasPend {
		n.pend = t.alg.CombineDeltas(n.pend, d)
	} else {
		n.pend = d
		n.hasPend = true
	}
}

// push 下推翻转标记与 pending 增量，翻转与增量共用同一个钩子。
func (t *Treap[V, D]) push(n *node[V, D]) {
	if n.rev {
		n.left, n.right = n.right, n.left
		if n.left != nil {
			n.left.rev = !n.left.rev
		}
		if n.right != nil {
			n.right.rev = !n.right.rev
		}
		n.rev = false
	}
	if n.hasPend {
		t.absorb(n.left, n.pend)
		t.absorb(n.right, n.pend)
		n.hasPend = false
	}
}

// pull 从（已生效的）子节点重算大小与聚合。
func (t *Treap[V, D]) pull(n *node[V, D]) {
	n.size = t.size(n.left) + 1 + t.size(n.right)
	n.agg = t.alg.Combine(t.alg.Combine(t.aggOf(n.left), n.val), t.aggOf(n.right))
}

// merge 连接两棵树堆，要求 l 的全部位置先于 r。按优先级选根。
func (t *Treap[V, D]) merge(l, r *node[V, D]) *node[V, D] {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.pri >= r.pri {
		t.push(l)
		l.right = t.merge(l.right, r)
		t.pull(l)
		return l
	}
	t.push(r)
	r.left = t.merge(l, r.left)
	t.pull(r)
	return r
}

// split 切分为前 k 个位置与其余两棵树堆。
func (t *Treap[V, D]) split(n *node[V, D], k int) (*node[V, D], *node[V, D]) {
	if n == nil {
		return nil, nil
	}
	t.push(n)
	if t.size(n.left) >= k {
		l, r := t.split(n.left, k)
		n.left = r
		t.pull(n)
		return l, n
	}
	l, r := t.split(n.right, k-t.size(n.left)-1)
	n.right = l
	t.pull(n)
	return n, r
}

// Insert 在位置 idx 处插入 v，原 idx 及之后的元素整体后移一位。
// 允许 idx == Len()，等价于 PushBack。
func (t *Treap[V, D]) Insert(idx int, v V) error {
	if idx < 0 || idx > t.Len() {
		return xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, t.Len())
	}
	fresh := &node[V, D]{
		pri:  rand.Uint64(),
		size: 1,
		val:  v,
		agg:  v,
	}
	l, r := t.split(t.root, idx)
	t.root = t.merge(t.merge(l, fresh), r)
	return nil
}

// PushBack 在末尾追加 v。
func (t *Treap[V, D]) PushBack(v V) {
	_ = t.Insert(t.Len(), v) // 末尾插入不会越界。
}

// PopBack 删除末尾元素。
func (t *Treap[V, D]) PopBack() error {
	if t.Len() == 0 {
		return xerrors.ErrEmptyStructure.With("pop from empty treap")
	}
	return t.Erase(t.Len() - 1)
}

// Erase 删除位置 idx 的元素，之后的元素整体前移一位。
func (t *Treap[V, D]) Erase(idx int) error {
	if idx < 0 || idx >= t.Len() {
		return xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, t.Len())
	}
	l, rest := t.split(t.root, idx)
	_, r := t.split(rest, 1)
	t.root = t.merge(l, r)
	return nil
}

// Get 返回位置 idx 处的元素值。
func (t *Treap[V, D]) Get(idx int) (V, error) {
	if idx < 0 || idx >= t.Len() {
		var zero V
		return zero, xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, t.Len())
	}
	n := t.root
	for {
		t.push(n)
		ls := t.size(n.left)
		switch {
		case idx < ls:
			n = n.left
		case idx == ls:
			return n.val, nil
		default:
			idx -= ls + 1
			n = n.right
		}
	}
}

// Query 区间查询，返回 Combine(a[lo], ..., a[hi])。
// lo > hi 视为空区间，返回单位元。
func (t *Treap[V, D]) Query(lo, hi int) (V, error) {
	var zero V
	if lo > hi {
		return t.alg.Identity(), nil
	}
	if lo < 0 || hi >= t.Len() {
		return zero, xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, t.Len())
	}
	l, rest := t.split(t.root, lo)
	mid, r := t.split(rest, hi-lo+1)
	agg := t.aggOf(mid)
	t.root = t.merge(t.merge(l, mid), r)
	return agg, nil
}

// Update 区间更新：对 lo ≤ i ≤ hi 的每个 a[i] 作用增量 d。
func (t *Treap[V, D]) Update(lo, hi int, d D) error {
	if lo > hi {
		return nil
	}
	if lo < 0 || hi >= t.Len() {
		return xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, t.Len())
	}
	l, rest := t.split(t.root, lo)
	mid, r := t.split(rest, hi-lo+1)
	t.absorb(mid, d)
	t.root = t.merge(t.merge(l, mid), r)
	return nil
}

// Reverse 翻转子区间 [lo, hi]，O(log N)。
func (t *Treap[V, D]) Reverse(lo, hi int) error {
	if lo > hi {
		return nil
	}
	if lo < 0 || hi >= t.Len() {
		return xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, t.Len())
	}
	l, rest := t.split(t.root, lo)
	mid, r := t.split(rest, hi-lo+1)
	if mid != nil {
		mid.rev = !mid.rev
	}
	t.root = t.merge(t.merge(l, mid), r)
	return nil
}

// Snapshot 按中序导出当前可观测的逻辑数组，O(N)。
func (t *Treap[V, D]) Snapshot() []V {
	out := make([]V, 0, t.Len())
	var walk func(n *node[V, D])
	walk = func(n *node[V, D]) {
		if n == nil {
			return
		}
		t.push(n)
		walk(n.left)
		out = append(out, n.val)
		walk(n.right)
	}
	walk(t.root)
	return out
}
