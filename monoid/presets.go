package monoid

import (
	"math"

	"github.com/shopspring/decimal"
)

// Assign “设值”增量：把区段内每个槽位覆盖为 Value。
// Valid 位区分真实赋值与中性增量，保证 Apply(v, 中性, len) == v。
type Assign[V any] struct {
	Valid bool
	Value V
}

// Set 构造一个生效的设值增量。
func Set[V any](v V) Assign[V] {
	return Assign[V]{Valid: true, Value: v}
}

// MinInt64 取最小值的幺半群，单位元为 math.MaxInt64。
func MinInt64() Monoid[int64] {
	return Monoid[int64]{
		Identity: func() int64 { return math.MaxInt64 },
		Combine: func(a, b int64) int64 {
			if a < b {
				return a
			}
			return b
		},
	}
}

// MaxInt64 取最大值的幺半群，单位元为 math.MinInt64。
func MaxInt64() Monoid[int64] {
	return Monoid[int64]{
		Identity: func() int64 { return math.MinInt64 },
		Combine: func(a, b int64) int64 {
			if a > b {
				return a
			}
			return b
		},
	}
}

// SumInt64 求和幺半群，单位元为 0。
func SumInt64() Monoid[int64] {
	return Monoid[int64]{
		Identity: func() int64 { return 0 },
		Combine:  func(a, b int64) int64 { return a + b },
	}
}

// WithAssign 给幺半群叠加设值增量。
// 仅对幂等的 Combine（min、max、gcd 等）成立：设值后区段合并值就是 Value 本身。
// 求和等非幂等幺半群请使用 SumInt64WithAssign。
func WithAssign[V any](m Monoid[V]) Algebra[V, Assign[V]] {
	return Algebra[V, Assign[V]]{
		Monoid:       m,
		NeutralDelta: func() Assign[V] { return Assign[V]{} },
		CombineDeltas: func(older, newer Assign[V]) Assign[V] {
			if newer.Valid {
				return newer
			}
			return older
		},
		Apply: func(v V, d Assign[V], _ int) V {
			if d.Valid {
				return d.Value
			}
			return v
		},
	}
}

// SumInt64WithAssign 求和幺半群 + 设值增量：区段设为 x 后总和为 x*len。
func SumInt64WithAssign() Algebra[int64, Assign[int64]] {
	return Algebra[int64, Assign[int64]]{
		Monoid:       SumInt64(),
		NeutralDelta: func() Assign[int64] { return Assign[int64]{} },
		CombineDeltas: func(older, newer Assign[int64]) Assign[int64] {
			if newer.Valid {
				return newer
			}
			return older
		},
		Apply: func(v int64, d Assign[int64], length int) int64 {
			if d.Valid {
				return d.Value * int64(length)
			}
			return v
		},
	}
}

// SumInt64WithAdd 求和幺半群 + 加法增量，Apply 依赖区段长度：v + d*len。
func SumInt64WithAdd() Algebra[int64, int64] {
	return Algebra[int64, int64]{
		Monoid:        SumInt64(),
		NeutralDelta:  func() int64 { return 0 },
		CombineDeltas: func(older, newer int64) int64 { return older + newer },
		Apply:         func(v, d int64, length int) int64 { return v + d*int64(length) },
	}
}

// MinInt64WithAdd 取最小值幺半群 + 加法增量：区段整体加 d 后最小值也加 d。
func MinInt64WithAdd() Algebra[int64, int64] {
	return Algebra[int64, int64]{
		Monoid:        MinInt64(),
		NeutralDelta:  func() int64 { return 0 },
		CombineDeltas: func(older, newer int64) int64 { return older + newer },
		Apply: func(v, d int64, _ int) int64 {
			// 单位元 (+inf) 加任意增量仍视为单位元，避免越界回绕。
			if v == math.MaxInt64 {
				return v
			}
			return v + d
		},
	}
}

// DecimalSum 精确十进制求和幺半群，适合金额类聚合。
func DecimalSum() Monoid[decimal.Decimal] {
	return Monoid[decimal.Decimal]{
		Identity: func() decimal.Decimal { return decimal.Zero },
		Combine:  func(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) },
	}
}

// DecimalSumWithAdd 十进制求和幺半群 + 加法增量：v + d*len。
func DecimalSumWithAdd() Algebra[decimal.Decimal, decimal.Decimal] {
	return Algebra[decimal.Decimal, decimal.Decimal]{
		Monoid:        DecimalSum(),
		NeutralDelta:  func() decimal.Decimal { return decimal.Zero },
		CombineDeltas: func(older, newer decimal.Decimal) decimal.Decimal { return older.Add(newer) },
		Apply: func(v, d decimal.Decimal, length int) decimal.Decimal {
			return v.Add(d.Mul(decimal.NewFromInt(int64(length))))
		},
	}
}
