package linkcut

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

func newMinForest(t *testing.T, values []int64) *Forest[int64, monoid.Assign[int64]] {
	t.Helper()
	f := NewForest(monoid.WithAssign(monoid.MinInt64()))
	for id, v := range values {
		require.NoError(t, f.AddNode(id, v))
	}
	return f
}

func TestForestPathScenario(t *testing.T) {
	f := newMinForest(t, []int64{10, 40, 20, 10, 30})
	assert.Equal(t, 5, f.Size())
	assert.Equal(t, 5, f.Trees())

	require.NoError(t, f.Link(0, 1))
	require.NoError(t, f.Link(1, 2))
	require.NoError(t, f.Link(2, 3))
	require.NoError(t, f.Link(2, 4))
	assert.Equal(t, 1, f.Trees())

	// 路径 1-2-4 上的最小值。
	got, err := f.Query(1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got)

	require.NoError(t, f.Update(1, 1, monoid.Set[int64](100)))
	require.NoError(t, f.Update(2, 4, monoid.Set[int64](100)))

	got, err = f.Query(0, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)

	got, err = f.Query(3, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)

	require.NoError(t, f.Cut(1, 2))
	assert.Equal(t, 2, f.Trees())

	conn, err := f.Connected(1, 2)
	require.NoError(t, err)
	assert.False(t, conn)

	conn, err = f.Connected(2, 3)
	require.NoError(t, err)
	assert.True(t, conn)
}

func TestForestLinkCutRoundTrip(t *testing.T) {
	f := newMinForest(t, []int64{1, 2})

	require.NoError(t, f.Link(0, 1))
	require.NoError(t, f.Cut(0, 1))

	conn, err := f.Connected(0, 1)
	require.NoError(t, err)
	assert.False(t, conn)

	// 自反连通性。
	conn, err = f.Connected(0, 0)
	require.NoError(t, err)
	assert.True(t, conn)
}

func TestForestDomainErrors(t *testing.T) {
	f := newMinForest(t, []int64{1, 2, 3})

	assert.True(t, errors.Is(f.AddNode(1, 9), xerrors.ErrNodeExists))

	_, err := f.Query(0, 99)
	assert.True(t, errors.Is(err, xerrors.ErrUnknownNode))
	_, err = f.Connected(99, 0)
	assert.True(t, errors.Is(err, xerrors.ErrUnknownNode))

	// 不连通的端点。
	_, err = f.Query(0, 1)
	assert.True(t, errors.Is(err, xerrors.ErrNotConnected))
	assert.True(t, errors.Is(f.Update(0, 1, monoid.Set[int64](5)), xerrors.ErrNotConnected))

	require.NoError(t, f.Link(0, 1))
	require.NoError(t, f.Link(1, 2))

	// 已连通的端点不能再连边。
	assert.True(t, errors.Is(f.Link(0, 2), xerrors.ErrAlreadyConnected))
	// 0-2 不是直接边。
	assert.True(t, errors.Is(f.Cut(0, 2), xerrors.ErrNotAnEdge))
	assert.True(t, errors.Is(f.Cut(1, 1), xerrors.ErrNotAnEdge))

	// DomainError 之后结构保持原状。
	conn, err := f.Connected(0, 2)
	require.NoError(t, err)
	assert.True(t, conn)
}

func TestForestFindRoot(t *testing.T) {
	f := newMinForest(t, []int64{0, 0, 0, 0})
	require.NoError(t, f.Link(0, 1))
	require.NoError(t, f.Link(2, 1))

	ra, err := f.FindRoot(0)
	require.NoError(t, err)
	rb, err := f.FindRoot(2)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)

	rc, err := f.FindRoot(3)
	require.NoError(t, err)
	assert.NotEqual(t, ra, rc)
}

// 与朴素邻接表 + BFS 的参考森林对拍，覆盖换根、翻转与增量下推的交互。
func TestForestRandomAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(101, 7))
	const n = 24
	vals := make([]int64, n)
	f := NewForest(monoid.WithAssign(monoid.MinInt64()))
	for i := 0; i < n; i++ {
		vals[i] = rng.Int64N(1000)
		require.NoError(t, f.AddNode(i, vals[i]))
	}
	adj := make(map[int]map[int]bool, n)
	for i := 0; i < n; i++ {
		adj[i] = make(map[int]bool)
	}

	// refPath 返回 u 到 v 的路径节点；不连通返回 nil。
	refPath := func(u, v int) []int {
		prev := map[int]int{u: -1}
		queue := []int{u}
		for len(queue) > 0 {
			x := queue[0]
			queue = queue[1:]
			if x == v {
				path := []int{}
				for w := v; w != -1; w = prev[w] {
					path = append(path, w)
				}
				return path
			}
			for w := range adj[x] {
				if _, seen := prev[w]; !seen {
					prev[w] = x
					queue = append(queue, w)
				}
			}
		}
		return nil
	}

	edges := [][2]int{}
	for step := 0; step < 600; step++ {
		u, v := rng.IntN(n), rng.IntN(n)
		switch rng.IntN(4) {
		case 0: // link
			err := f.Link(u, v)
			if refPath(u, v) != nil {
				require.True(t, errors.Is(err, xerrors.ErrAlreadyConnected), "link %d-%d", u, v)
			} else {
				require.NoError(t, err)
				adj[u][v], adj[v][u] = true, true
				edges = append(edges, [2]int{u, v})
			}
		case 1: // cut 一条随机已存在的边
			if len(edges) == 0 {
				continue
			}
			i := rng.IntN(len(edges))
			e := edges[i]
			require.NoError(t, f.Cut(e[0], e[1]))
			delete(adj[e[0]], e[1])
			delete(adj[e[1]], e[0])
			edges[i] = edges[len(edges)-1]
			edges = edges[:len(edges)-1]
		case 2: // update
			path := refPath(u, v)
			val := rng.Int64N(1000)
			err := f.Update(u, v, monoid.Set(val))
			if path == nil {
				require.True(t, errors.Is(err, xerrors.ErrNotConnected))
				continue
			}
			require.NoError(t, err)
			for _, w := range path {
				vals[w] = val
			}
		default: // query
			path := refPath(u, v)
			got, err := f.Query(u, v)
			if path == nil {
				require.True(t, errors.Is(err, xerrors.ErrNotConnected))
				continue
			}
			require.NoError(t, err)
			want := vals[path[0]]
			for _, w := range path[1:] {
				want = min(want, vals[w])
			}
			require.Equal(t, want, got, "path %d-%d", u, v)
		}
	}

	// 收尾：逐点值与参考一致。
	for i := 0; i < n; i++ {
		got, err := f.Get(i)
		require.NoError(t, err)
		require.Equal(t, vals[i], got)
	}
}
