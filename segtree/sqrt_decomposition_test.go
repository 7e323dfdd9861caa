package segtree

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/rangekit/monoid"
)

func TestSqrtDecompositionMinScenario(t *testing.T) {
	sd, err := NewSqrtFromSlice(monoid.WithAssign(monoid.MinInt64()), []int64{6, -2, 1, 8, 10})
	require.NoError(t, err)

	require.NoError(t, sd.Update(2, monoid.Set[int64](4)))

	got, err := sd.Query(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), got)

	v, err := sd.Get(2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

// 与线段树后端可互换：同一操作序列产生完全相同的可观测结果。
func TestSqrtDecompositionMatchesSegmentTree(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 8))
	n := 37 // 故意不是完全平方数。
	st, err := New(monoid.SumInt64WithAdd(), n, int64(0))
	require.NoError(t, err)
	sd, err := NewSqrt(monoid.SumInt64WithAdd(), n, int64(0))
	require.NoError(t, err)

	for step := 0; step < 400; step++ {
		if rng.IntN(2) == 0 {
			i := rng.IntN(n)
			d := rng.Int64N(100) - 50
			require.NoError(t, st.Update(i, d))
			require.NoError(t, sd.Update(i, d))
		} else {
			lo := rng.IntN(n)
			hi := lo + rng.IntN(n-lo)
			a, err := st.Query(lo, hi)
			require.NoError(t, err)
			b, err := sd.Query(lo, hi)
			require.NoError(t, err)
			require.Equal(t, a, b)
		}
	}
	assert.Equal(t, st.Snapshot(), sd.Snapshot())
}

func TestSqrtDecompositionUpdateRange(t *testing.T) {
	sd, err := NewSqrtFromSlice(monoid.SumInt64WithAdd(), []int64{1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, err)

	require.NoError(t, sd.UpdateRange(2, 5, 10))
	got, err := sd.Query(0, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(7+40), got)
	assert.Equal(t, []int64{1, 1, 11, 11, 11, 11, 1}, sd.Snapshot())
}
