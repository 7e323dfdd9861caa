package monoid

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinInt64Identity(t *testing.T) {
	m := MinInt64()
	assert.Equal(t, int64(-7), m.Combine(-7, m.Identity()))
	assert.Equal(t, int64(-7), m.Combine(m.Identity(), -7))
}

func TestWithAssignLaws(t *testing.T) {
	alg := WithAssign(MinInt64())

	// 中性增量不改变任何值。
	assert.Equal(t, int64(42), alg.Apply(42, alg.NeutralDelta(), 1))
	assert.Equal(t, int64(42), alg.Apply(42, alg.NeutralDelta(), 5))

	// 后写覆盖先写。
	d := alg.CombineDeltas(Set[int64](1), Set[int64](2))
	assert.Equal(t, int64(2), alg.Apply(99, d, 3))

	// 中性增量叠加真实增量等于真实增量本身。
	d = alg.CombineDeltas(alg.NeutralDelta(), Set[int64](5))
	assert.Equal(t, int64(5), alg.Apply(99, d, 1))
	d = alg.CombineDeltas(Set[int64](5), alg.NeutralDelta())
	assert.Equal(t, int64(5), alg.Apply(99, d, 1))
}

func TestSumInt64WithAddDistributes(t *testing.T) {
	alg := SumInt64WithAdd()

	// 分配律：对等值区段一次性作用 == 逐槽作用后合并。
	a, b := int64(3), int64(3)
	d := int64(7)
	lhs := alg.Apply(alg.Combine(a, b), d, 2)
	rhs := alg.Combine(alg.Apply(a, d, 1), alg.Apply(b, d, 1))
	assert.Equal(t, rhs, lhs)
	assert.Equal(t, int64(20), lhs)
}

func TestSumInt64WithAssignScalesByLength(t *testing.T) {
	alg := SumInt64WithAssign()
	assert.Equal(t, int64(12), alg.Apply(99, Set[int64](4), 3))
	assert.Equal(t, int64(99), alg.Apply(99, alg.NeutralDelta(), 3))
}

func TestMinInt64WithAddKeepsIdentity(t *testing.T) {
	alg := MinInt64WithAdd()
	// 单位元不被加法增量污染。
	assert.Equal(t, alg.Identity(), alg.Apply(alg.Identity(), 100, 4))
	assert.Equal(t, int64(5), alg.Apply(2, 3, 4))
}

func TestDecimalSum(t *testing.T) {
	alg := DecimalSumWithAdd()
	a := decimal.RequireFromString("10.25")
	b := decimal.RequireFromString("0.75")
	require.True(t, alg.Combine(a, b).Equal(decimal.RequireFromString("11.00")))

	// v + d*len。
	got := alg.Apply(a, decimal.RequireFromString("0.10"), 3)
	require.True(t, got.Equal(decimal.RequireFromString("10.55")))
	require.True(t, alg.Apply(a, alg.NeutralDelta(), 7).Equal(a))
}
