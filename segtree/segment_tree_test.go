package segtree

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

func TestSegmentTreeMinScenario(t *testing.T) {
	st, err := NewFromSlice(monoid.WithAssign(monoid.MinInt64()), []int64{6, -2, 1, 8, 10})
	require.NoError(t, err)

	require.NoError(t, st.Update(2, monoid.Set[int64](4)))

	got, err := st.Query(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), got)

	v, err := st.Get(2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func TestSegmentTreeEmptyRangeYieldsIdentity(t *testing.T) {
	alg := monoid.WithAssign(monoid.MinInt64())
	st, err := New(alg, 4, int64(3))
	require.NoError(t, err)

	got, err := st.Query(2, 1)
	require.NoError(t, err)
	assert.Equal(t, alg.Identity(), got)
}

func TestSegmentTreeDomainErrors(t *testing.T) {
	st, err := NewFromSlice(monoid.WithAssign(monoid.MinInt64()), []int64{1, 2, 3})
	require.NoError(t, err)

	_, err = st.Get(3)
	assert.True(t, xerrors.IsDomain(err))
	assert.True(t, errors.Is(err, xerrors.ErrIndexOutOfRange))

	err = st.Update(-1, monoid.Set[int64](0))
	assert.True(t, xerrors.IsDomain(err))

	_, err = st.Query(0, 3)
	assert.True(t, errors.Is(err, xerrors.ErrBadRange))

	// DomainError 之后结构保持原状。
	assert.Equal(t, []int64{1, 2, 3}, st.Snapshot())

	_, err = New(monoid.WithAssign(monoid.MinInt64()), 0, int64(0))
	assert.True(t, errors.Is(err, xerrors.ErrEmptyStructure))
}

func TestSegmentTreeQuerySplitProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	n := 64
	values := make([]int64, n)
	for i := range values {
		values[i] = rng.Int64N(2000) - 1000
	}
	st, err := NewFromSlice(monoid.SumInt64WithAdd(), values)
	require.NoError(t, err)

	// query(lo, hi) == combine(query(lo, m), query(m+1, hi))。
	for trial := 0; trial < 200; trial++ {
		lo := rng.IntN(n)
		hi := lo + rng.IntN(n-lo)
		if lo >= hi {
			continue
		}
		m := lo + rng.IntN(hi-lo)
		whole, err := st.Query(lo, hi)
		require.NoError(t, err)
		left, err := st.Query(lo, m)
		require.NoError(t, err)
		right, err := st.Query(m+1, hi)
		require.NoError(t, err)
		assert.Equal(t, whole, left+right)
	}
}

func TestSegmentTreeRandomAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	n := 40
	ref := make([]int64, n)
	st, err := New(monoid.SumInt64WithAdd(), n, int64(0))
	require.NoError(t, err)

	for step := 0; step < 500; step++ {
		if rng.IntN(2) == 0 {
			i := rng.IntN(n)
			d := rng.Int64N(200) - 100
			ref[i] += d
			require.NoError(t, st.Update(i, d))
		} else {
			lo := rng.IntN(n)
			hi := lo + rng.IntN(n-lo)
			var want int64
			for i := lo; i <= hi; i++ {
				want += ref[i]
			}
			got, err := st.Query(lo, hi)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
	assert.Equal(t, ref, st.Snapshot())
}
