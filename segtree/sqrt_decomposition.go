package segtree

import (
	"math"

	"github.com/wyfcoding/rangekit/monoid"
	"github.com/wyfcoding/rangekit/xerrors"
)

// SqrtDecomposition 分块分解，提供与 SegmentTree 相同的外部接口。
//
// 逻辑数组被切成约 √N 个块，每块缓存一份聚合值。
// 查询合并完全覆盖的整块，再逐元素补齐至多两段残块；
// 单点更新后只重算所在块的聚合。操作均为 O(√N)。
// 当 Combine 很昂贵、对数渐进收益不明显时，可作为更简单的替代后端。
type SqrtDecomposition[V, D any] struct {
	alg       monoid.Algebra[V, D]
	items     []V // 原始逻辑数组。
	blocks    []V // 每块的聚合值。
	blockSize int
}

// NewSqrt 创建逻辑数组为 n 个 fill 的分块结构。
func NewSqrt[V, D any](alg monoid.Algebra[V, D], n int, fill V) (*SqrtDecomposition[V, D], error) {
	if n <= 0 {
		return nil, xerrors.ErrEmptyStructure.With("n=%d", n)
	}
	items := make([]V, n)
	for i := range items {
		items[i] = fill
	}
	return newSqrt(alg, items), nil
}

// NewSqrtFromSlice 以给定切片为逻辑数组创建分块结构。
func NewSqrtFromSlice[V, D any](alg monoid.Algebra[V, D], values []V) (*SqrtDecomposition[V, D], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyStructure.With("empty values")
	}
	items := make([]V, len(values))
	copy(items, values)
	return newSqrt(alg, items), nil
}

func newSqrt[V, D any](alg monoid.Algebra[V, D], items []V) *SqrtDecomposition[V, D] {
	n := len(items)
	bs := int(math.Sqrt(float64(n)))
	if bs < 1 {
		bs = 1
	}
	sd := &SqrtDecomposition[V, D]{
		alg:       alg,
		items:     items,
		blocks:    make([]V, (n+bs-1)/bs),
		blockSize: bs,
	}
	for b := range sd.blocks {
		sd.rebuildBlock(b)
	}
	return sd
}

// rebuildBlock 从元素重算第 b 块的聚合值。
func (sd *SqrtDecomposition[V, D]) rebuildBlock(b int) {
	lo := b * sd.blockSize
	hi := min(lo+sd.blockSize, len(sd.items))
	agg := sd.alg.Identity()
	for i := lo; i < hi; i++ {
		agg = sd.alg.Combine(agg, sd.items[i])
	}
	sd.blocks[b] = agg
}

// Len 返回逻辑数组大小。
func (sd *SqrtDecomposition[V, D]) Len() int {
	return len(sd.items)
}

// Get 返回下标 idx 处的元素值。
func (sd *SqrtDecomposition[V, D]) Get(idx int) (V, error) {
	if idx < 0 || idx >= len(sd.items) {
		var zero V
		return zero, xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, len(sd.items))
	}
	return sd.items[idx], nil
}

// Update 单点更新：a[idx] = Apply(a[idx], d, 1)，随后重算所在块。
func (sd *SqrtDecomposition[V, D]) Update(idx int, d D) error {
	if idx < 0 || idx >= len(sd.items) {
		return xerrors.ErrIndexOutOfRange.With("idx=%d n=%d", idx, len(sd.items))
	}
	sd.items[idx] = sd.alg.Point(sd.items[idx], d)
	sd.rebuildBlock(idx / sd.blockSize)
	return nil
}

// UpdateRange 区间更新：逐元素作用增量，重算所有触及的块。
// O((hi-lo) + √N)，接口上与懒惰线段树可互换。
func (sd *SqrtDecomposition[V, D]) UpdateRange(lo, hi int, d D) error {
	if lo > hi {
		return nil
	}
	if lo < 0 || hi >= len(sd.items) {
		return xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, len(sd.items))
	}
	for i := lo; i <= hi; i++ {
		sd.items[i] = sd.alg.Point(sd.items[i], d)
	}
	for b := lo / sd.blockSize; b <= hi/sd.blockSize; b++ {
		sd.rebuildBlock(b)
	}
	return nil
}

// Query 区间查询，返回 Combine(a[lo], ..., a[hi])。
// lo > hi 视为空区间，返回单位元。
func (sd *SqrtDecomposition[V, D]) Query(lo, hi int) (V, error) {
	var zero V
	if lo > hi {
		return sd.alg.Identity(), nil
	}
	if lo < 0 || hi >= len(sd.items) {
		return zero, xerrors.ErrBadRange.With("lo=%d hi=%d n=%d", lo, hi, len(sd.items))
	}
	agg := sd.alg.Identity()
	i := lo
	for i <= hi {
		b := i / sd.blockSize
		blockEnd := (b+1)*sd.blockSize - 1
		if i%sd.blockSize == 0 && blockEnd <= hi {
			// 整块命中，直接合并缓存的聚合值。
			agg = sd.alg.Combine(agg, sd.blocks[b])
			i = blockEnd + 1
			continue
		}
		agg = sd.alg.Combine(agg, sd.items[i])
		i++
	}
	return agg, nil
}

// Snapshot 导出当前可观测的逻辑数组。
func (sd *SqrtDecomposition[V, D]) Snapshot() []V {
	out := make([]V, len(sd.items))
	copy(out, sd.items)
	return out
}
