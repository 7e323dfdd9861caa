// Package linkcut 提供动态树上的 link/cut 森林。
// 每条偏好路径由一棵按深度排序的伸展树表示，access 动态切换偏好路径；
// 连边、断边、连通性判定与路径查询/更新均摊 O(log N)。
package linkcut

import (
	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

// node 伸展树节点。
//
// parent 指针一职两用：当本节点不是其父的伸展树子节点时，
// parent 即 path-parent，指向被表示森林中本条偏好路径上方的节点。
type node[V, D any] struct {
	parent, left, right *node[V, D]
	id                  int
	size                int
	val                 V
	agg                 V // 伸展树子树聚合，已反映本节点的 pending 增量。
	pend                D
	hasPend             bool
	rev                 bool // 深度序翻转标记，换根时使用。
}

// Forest link/cut 森林。节点以任意整数编号标识；
// 未知编号的操作一律返回 DomainError。路径合并假定 Combine 满足交换律。
type Forest[V, D any] struct {
	alg   monoid.Algebra[V, D]
	nodes map[int]*node[V, D]
	trees int
}

// NewForest 创建一座空森林。
func NewForest[V, D any](alg monoid.Algebra[V, D]) *Forest[V, D] {
	return &Forest[V, D]{
		alg:   alg,
		nodes: make(map[int]*node[V, D]),
	}
}

// Size 返回森林中的节点总数。
func (f *Forest[V, D]) Size() int { return len(f.nodes) }

// Trees 返回森林中的树的棵数。
func (f *Forest[V, D]) Trees() int { return f.trees }

// AddNode 新建一棵只含节点 id 的单点树，初始值 v。
func (f *Forest[V, D]) AddNode(id int, v V) error {
	if _, ok := f.nodes[id]; ok {
		observeOp("add_node", false)
		return xerrors.ErrNodeExists.With("id=%d", id)
	}
	f.nodes[id] = &node[V, D]{id: id, size: 1, val: v, agg: v}
	f.trees++
	observeOp("add_node", true)
	return nil
}

func (f *Forest[V, D]) lookup(ids ...int) ([]*node[V, D], error) {
	out := make([]*node[V, D], len(ids))
	for i, id := range ids {
		n, ok := f.nodes[id]
		if !ok {
			return nil, xerrors.ErrUnknownNode.With("id=%d", id)
		}
		out[i] = n
	}
	return out, nil
}

// --- 伸展树原语 ---

// isRoot 判断 x 是否为其伸展树的根（parent 此时是 path-parent 或 nil）。
func (f *Forest[V, D]) isRoot(x *node[V, D]) bool {
	return x.parent == nil || (x.parent.left != x && x.parent.right != x)
}

func (f *Forest[V, D]) sizeOf(x *node[V, D]) int {
	if x == nil {
		return 0
	}
	return x.size
}

func (f *Forest[V, D]) aggOf(x *node[V, D]) V {
	if x == nil {
		return f.alg.Identity()
	}
	return x.agg
}

// absorb 将增量作用到整棵伸展子树：值与聚合立即反映，增量累入 pending。
func (f *Forest[V, D]) absorb(x *node[V, D], d D) {
	if x == nil {
		return
	}
	x.val = f.alg.Point(x.val, d)
	x.agg = f.alg.Apply(x.agg, d, x.size)
	if x.hasPend {
		x.pend = f.alg.CombineDeltas(x.pend, d)
	} else {
		x.pend = d
		x.hasPend = true
	}
}

// push 下推翻转标记与 pending 增量，两者共用同一个下推钩子。
func (f *Forest[V, D]) push(x *node[V, D]) {
	if x.rev {
		x.left, x.right = x.right, x.left
		if x.left != nil {
			x.left.rev = !x.left.rev
		}
		if x.right != nil {
			x.right.rev = !x.right.rev
		}
		x.rev = false
	}
	if x.hasPend {
		f.absorb(x.left, x.pend)
		f.absorb(x.right, x.pend)
		x.hasPend = false
	}
}

// pull 从（已生效的）子节点重算大小与聚合。
func (f *Forest[V, D]) pull(x *node[V, D]) {
	x.size = f.sizeOf(x.left) + 1 + f.sizeOf(x.right)
	x.agg = f.alg.Combine(f.alg.Combine(f.aggOf(x.left), x.val), f.aggOf(x.right))
}

// rotate 单旋：把 x 提到其父的位置，path-parent 随伸展树根迁移。
func (f *Forest[V, D]) rotate(x *node[V, D]) {
	p := x.parent
	g := p.parent
	pWasRoot := f.isRoot(p)

	if x == p.left {
		p.left = x.right
		if p.left != nil {
			p.left.parent = p
		}
		x.right = p
	} else {
		p.right = x.left
		if p.right != nil {
			p.right.parent = p
		}
		x.left = p
	}
	p.parent = x
	x.parent = g
	if !pWasRoot {
		if g.left == p {
			g.left = x
		} else {
			g.right = x
		}
	}
	f.pull(p)
	f.pull(x)
}

// splay 把 x 旋到其伸展树的根，旋转前自顶向下下推整条路径。
func (f *Forest[V, D]) splay(x *node[V, D]) {
	path := []*node[V, D]{x}
	for n := x; !f.isRoot(n); {
		n = n.parent
		path = append(path, n)
	}
	for i := len(path) - 1; i >= 0; i-- {
		f.push(path[i])
	}
	for !f.isRoot(x) {
		p := x.parent
		if !f.isRoot(p) {
			g := p.parent
			if (g.left == p) == (p.left == x) {
				f.rotate(p) // zig-zig
			} else {
				f.rotate(x) // zig-zag
			}
		}
		f.rotate(x)
	}
}

// access 把 v 到其所在树根的路径变成一条偏好路径，并把 v 伸展到该路径伸展树的根。
func (f *Forest[V, D]) access(x *node[V, D]) {
	f.splay(x)
	if x.right != nil {
		// 比 x 更深的一段降级：x.right 成为新偏好路径，其 parent 保持指向 x，
		// 即 path-parent 语义。
		x.right = nil
		f.pull(x)
	}
	for x.parent != nil {
		y := x.parent
		f.splay(y)
		// y 原先的更深偏好段降级为 path-parent 指向 y；x 接上成为新的偏好子树。
		y.right = x
		f.pull(y)
		f.splay(x)
	}
}

// makeRoot 把 x 变成其所在树的根：翻转偏好路径的深度序。
func (f *Forest[V, D]) makeRoot(x *node[V, D]) {
	f.access(x)
	x.rev = !x.rev
}

// findRoot 返回 x 所在树的根节点。
func (f *Forest[V, D]) findRoot(x *node[V, D]) *node[V, D] {
	f.access(x)
	n := x
	f.push(n)
	for n.left != nil {
		n = n.left
		f.push(n)
	}
	f.splay(n)
	return n
}

func (f *Forest[V, D]) connectedNodes(a, b *node[V, D]) bool {
	if a == b {
		return true
	}
	return f.findRoot(a) == f.findRoot(b)
}

// --- 公开操作 ---

// Connected 判断 a、b 是否在同一棵树中；a == a 恒为真。
func (f *Forest[V, D]) Connected(a, b int) (bool, error) {
	ns, err := f.lookup(a, b)
	if err != nil {
		return false, err
	}
	return f.connectedNodes(ns[0], ns[1]), nil
}

// FindRoot 返回 a 所在树当前的根节点编号。
func (f *Forest[V, D]) FindRoot(a int) (int, error) {
	ns, err := f.lookup(a)
	if err != nil {
		return 0, err
	}
	return f.findRoot(ns[0]).id, nil
}

// Link 连边：把 a 换根后挂到 b 下。要求 a、b 当前不连通。
func (f *Forest[V, D]) Link(a, b int) error {
	ns, err := f.lookup(a, b)
	if err != nil {
		observeOp("link", false)
		return err
	}
	na, nb := ns[0], ns[1]
	if f.connectedNodes(na, nb) {
		observeOp("link", false)
		return xerrors.ErrAlreadyConnected.With("a=%d b=%d", a, b)
	}
	f.makeRoot(na)
	f.splay(na)
	na.parent = nb // path-parent：na 自成一条偏好路径挂在 b 下。
	f.trees--
	observeOp("link", true)
	return nil
}

// Cut 断边：要求 a、b 之间存在直接边。
func (f *Forest[V, D]) Cut(a, b int) error {
	ns, err := f.lookup(a, b)
	if err != nil {
		observeOp("cut", false)
		return err
	}
	na, nb := ns[0], ns[1]
	if na == nb {
		observeOp("cut", false)
		return xerrors.ErrNotAnEdge.With("a=b=%d", a)
	}
	if !f.connectedNodes(na, nb) {
		observeOp("cut", false)
		return xerrors.ErrNotAnEdge.With("a=%d b=%d not connected", a, b)
	}
	f.makeRoot(na)
	f.access(nb)
	// 换根后 a 深度为 0、b 在其下方；(a,b) 是边当且仅当
	// b 的伸展树中 a 恰为 b 的左子且 a 没有右子（深度序相邻）。
	f.push(nb)
	if nb.left != na {
		observeOp("cut", false)
		return xerrors.ErrNotAnEdge.With("a=%d b=%d", a, b)
	}
	f.push(na)
	if na.right != nil {
		observeOp("cut", false)
		return xerrors.ErrNotAnEdge.With("a=%d b=%d", a, b)
	}
	nb.left = nil
	na.parent = nil
	f.pull(nb)
	f.trees++
	observeOp("cut", true)
	return nil
}

// Query 合并 a 到 b 路径上所有节点的值。要求 a、b 连通。
func (f *Forest[V, D]) Query(a, b int) (V, error) {
	var zero V
	ns, err := f.lookup(a, b)
	if err != nil {
		observeOp("query", false)
		return zero, err
	}
	na, nb := ns[0], ns[1]
	if !f.connectedNodes(na, nb) {
		observeOp("query", false)
		return zero, xerrors.ErrNotConnected.With("a=%d b=%d", a, b)
	}
	f.makeRoot(na)
	f.access(nb)
	observeOp("query", true)
	return nb.agg, nil
}

// Update 对 a 到 b 路径上所有节点作用增量 d。要求 a、b 连通。
func (f *Forest[V, D]) Update(a, b int, d D) error {
	ns, err := f.lookup(a, b)
	if err != nil {
		observeOp("update", false)
		return err
	}
	na, nb := ns[0], ns[1]
	if !f.connectedNodes(na, nb) {
		observeOp("update", false)
		return xerrors.ErrNotConnected.With("a=%d b=%d", a, b)
	}
	f.makeRoot(na)
	f.access(nb)
	f.absorb(nb, d)
	observeOp("update", true)
	return nil
}

// Get 返回节点 a 的当前值。
func (f *Forest[V, D]) Get(a int) (V, error) {
	var zero V
	ns, err := f.lookup(a)
	if err != nil {
		return zero, err
	}
	f.access(ns[0])
	return ns[0].val, nil
}
