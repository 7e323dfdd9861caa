// Package hld 提供静态有根树上的重链剖分 (heavy-light decomposition)。
// 树被划分为 O(log N) 条重链，链上位置连续，底层由一棵懒惰线段树承载，
// 任意两点间的路径查询/更新因此化为 O(log N) 次区间操作，总计 O(log² N)。
package hld

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wyfcoding/rangekit/logging"
	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/segtree"
	"github.com/wyfcoding/rangekit/xerrors"
)

type config struct {
	root          int
	valuesOnEdges bool
	logger        *logging.Logger
}

// Option 配置剖分行为。
type Option func(*config)

// WithRoot 指定根节点，默认 0。
func WithRoot(root int) Option {
	return func(c *config) { c.root = root }
}

// WithValuesOnEdges 令值逻辑上挂在“非根节点到其父节点的边”上。
// 此模式下路径操作在两端点交汇于 LCA 时不含 LCA 自身的槽位，
// 且两端点相同的路径操作返回 DomainError。
func WithValuesOnEdges() Option {
	return func(c *config) { c.valuesOnEdges = true }
}

// WithLogger 指定构建完成后输出调试摘要的日志器。
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Decomposition 一棵静态树的重链剖分及其承载线段树。
// 构建后不得再修改传入的邻接表；路径合并假定 Combine 满足交换律。
type Decomposition[V, D any] struct {
	alg           monoid.Algebra[V, D]
	n             int
	valuesOnEdges bool
	root          int

	parent []int
	depth  []int
	heavy  []int // 重儿子，-1 表示叶子。
	head   []int // 所在重链的链头（最浅节点）。
	pos    []int // 底层线段树中的基位置，链内连续。
	chains int

	tree *segtree.LazySegmentTree[V, D]
}

// New 对 adj 描述的无向树做剖分，所有槽位初始化为 fill。
// adj[i] 列出节点 i 的邻居；节点编号 0..n-1；必须是连通无环的树。
func New[V, D any](alg monoid.Algebra[V, D], adj [][]int, fill V, opts ...Option) (*Decomposition[V, D], error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	n := len(adj)
	if n == 0 {
		return nil, xerrors.ErrEmptyStructure.With("empty adjacency list")
	}
	if cfg.root < 0 || cfg.root >= n {
		return nil, xerrors.ErrIndexOutOfRange.With("root=%d n=%d", cfg.root, n)
	}

	d := &Decomposition[V, D]{
		alg:           alg,
		n:             n,
		valuesOnEdges: cfg.valuesOnEdges,
		root:          cfg.root,
		parent:        make([]int, n),
		depth:         make([]int, n),
		heavy:         make([]int, n),
		head:          make([]int, n),
		pos:           make([]int, n),
	}
	if err := d.decompose(adj); err != nil {
		return nil, err
	}

	tree, err := segtree.NewLazy(alg, n, fill)
	if err != nil {
		return nil, err
	}
	d.tree = tree

	if cfg.logger != nil {
		cfg.logger.Debug("hld decomposition built",
			"nodes", n, "chains", d.chains, "root", d.root, "values_on_edges", d.valuesOnEdges)
	}
	return d, nil
}

// decompose 两趟迭代遍历完成剖分，显式栈保证 n ~ 10⁶ 级别不会爆栈。
func (d *Decomposition[V, D]) decompose(adj [][]int) error {
	n := d.n
	order := make([]int, 0, n)
	visited := make([]bool, n)

	// 第一趟：先序遍历记录 parent / depth / 访问顺序。
	d.parent[d.root] = -1
	visited[d.root] = true
	stack := []int{d.root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, v)
		for _, w := range adj[v] {
			if w < 0 || w >= n {
				return xerrors.ErrBadTree.With("neighbor %d of node %d out of range", w, v)
			}
			if w == d.parent[v] {
				continue
			}
			if visited[w] {
				return xerrors.ErrBadTree.With("cycle through node %d", w)
			}
			visited[w] = true
			d.parent[w] = v
			d.depth[w] = d.depth[v] + 1
			stack = append(stack, w)
		}
	}
	if len(order) != n {
		return xerrors.ErrBadTree.With("reached %d of %d nodes", len(order), n)
	}

	// 逆先序累加子树大小并选出重儿子。
	size := make([]int, n)
	for i := range d.heavy {
		d.heavy[i] = -1
	}
	for i := n - 1; i >= 0; i-- {
		v := order[i]
		size[v]++
		p := d.parent[v]
		if p < 0 {
			continue
		}
		size[p] += size[v]
		if d.heavy[p] == -1 || size[v] > size[d.heavy[p]] {
			d.heavy[p] = v
		}
	}

	// 第二趟：重儿子优先分配基位置，使每条重链占据连续区间。
	// 轻儿子先入栈、重儿子后入栈，弹栈时重儿子紧随其父。
	timer := 0
	d.head[d.root] = d.root
	stack = stack[:0]
	stack = append(stack, d.root)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		d.pos[v] = timer
		timer++
		if v == d.head[v] {
			d.chains++
		}
		for _, w := range adj[v] {
			if w == d.parent[v] || w == d.heavy[v] {
				continue
			}
			d.head[w] = w // 轻儿子开启新链。
			stack = append(stack, w)
		}
		if h := d.heavy[v]; h != -1 {
			d.head[h] = d.head[v]
			stack = append(stack, h)
		}
	}
	return nil
}

// Len 返回树的节点数。
func (d *Decomposition[V, D]) Len() int { return d.n }

// Chains 返回重链条数。
func (d *Decomposition[V, D]) Chains() int { return d.chains }

// Depth 返回节点深度，根为 0。
func (d *Decomposition[V, D]) Depth(u int) (int, error) {
	if u < 0 || u >= d.n {
		return 0, xerrors.ErrIndexOutOfRange.With("u=%d n=%d", u, d.n)
	}
	return d.depth[u], nil
}

// LCA 返回 u、v 的最近公共祖先。
func (d *Decomposition[V, D]) LCA(u, v int) (int, error) {
	if u < 0 || u >= d.n || v < 0 || v >= d.n {
		return 0, xerrors.ErrIndexOutOfRange.With("u=%d v=%d n=%d", u, v, d.n)
	}
	for d.head[u] != d.head[v] {
		if d.depth[d.head[u]] < d.depth[d.head[v]] {
			u, v = v, u
		}
		u = d.parent[d.head[u]]
	}
	if d.depth[u] <= d.depth[v] {
		return u, nil
	}
	return v, nil
}

// Get 返回节点 u 槽位的当前值。
// 边权模式下该槽位存放 u 到其父节点那条边的值；根的槽位保持初始填充值。
func (d *Decomposition[V, D]) Get(u int) (V, error) {
	if u < 0 || u >= d.n {
		var zero V
		return zero, xerrors.ErrIndexOutOfRange.With("u=%d n=%d", u, d.n)
	}
	return d.tree.Get(d.pos[u])
}

// QueryPath 合并 u 到 v 路径上所有槽位的值。
func (d *Decomposition[V, D]) QueryPath(ctx context.Context, u, v int) (V, error) {
	ctx, span := tracer.Start(ctx, "hld.QueryPath",
		trace.WithAttributes(attribute.Int("u", u), attribute.Int("v", v)))
	defer span.End()
	start := time.Now()

	res := d.alg.Identity()
	err := d.walkPath(u, v, func(lo, hi int) error {
		part, qerr := d.tree.Query(lo, hi)
		if qerr != nil {
			return qerr
		}
		res = d.alg.Combine(res, part)
		return nil
	})
	observePathOp("query", start, err, span)
	if err != nil {
		var zero V
		return zero, err
	}
	return res, nil
}

// UpdatePath 对 u 到 v 路径上所有槽位作用增量 d。
func (d *Decomposition[V, D]) UpdatePath(ctx context.Context, u, v int, delta D) error {
	ctx, span := tracer.Start(ctx, "hld.UpdatePath",
		trace.WithAttributes(attribute.Int("u", u), attribute.Int("v", v)))
	defer span.End()
	start := time.Now()

	err := d.walkPath(u, v, func(lo, hi int) error {
		return d.tree.Update(lo, hi, delta)
	})
	observePathOp("update", start, err, span)
	return err
}

// walkPath 把 u-v 路径分解为 O(log N) 段链内连续区间并逐段回调。
// 总在链头不是另一端祖先的那一侧向上跳，直到两端落在同一条链上。
func (d *Decomposition[V, D]) walkPath(u, v int, visit func(lo, hi int) error) error {
	if u < 0 || u >= d.n || v < 0 || v >= d.n {
		return xerrors.ErrIndexOutOfRange.With("u=%d v=%d n=%d", u, v, d.n)
	}
	if d.valuesOnEdges && u == v {
		return xerrors.ErrSameEndpoint.With("u=v=%d", u)
	}
	for d.head[u] != d.head[v] {
		if d.depth[d.head[u]] < d.depth[d.head[v]] {
			u, v = v, u
		}
		if err := visit(d.pos[d.head[u]], d.pos[u]); err != nil {
			return err
		}
		u = d.parent[d.head[u]]
	}
	if d.depth[u] > d.depth[v] {
		u, v = v, u
	}
	lo := d.pos[u]
	if d.valuesOnEdges {
		lo++ // LCA 的槽位属于它到父节点的边，不在路径内。
	}
	if lo <= d.pos[v] {
		return visit(lo, d.pos[v])
	}
	return nil
}

func observePathOp(op string, start time.Time, err error, span trace.Span) {
	pathOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		pathOpsTotal.WithLabelValues(op, "error").Inc()
		return
	}
	pathOpsTotal.WithLabelValues(op, "ok").Inc()
}
