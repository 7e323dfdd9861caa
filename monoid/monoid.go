// Package monoid 定义 rangekit 中所有区间结构共享的幺半群与增量代数。
// 调用方以“五个函数的配置记录”的形式提供代数，结构本身不关心值的含义。
package monoid

// Monoid 幺半群：一个满足结合律的 Combine 与其单位元 Identity。
// 约束：Combine(x, Identity()) == Combine(Identity(), x) == x。
type Monoid[V any] struct {
	Identity func() V
	Combine  func(a, b V) V
}

// Algebra 在幺半群之上叠加增量 (delta) 代数，驱动懒惰传播。
//
// 约束：
//   - Apply(v, NeutralDelta(), length) == v；
//   - CombineDeltas 满足结合律，CombineDeltas(older, newer) 表示先作用
//     older 再作用 newer；
//   - 分配律：若 d 被一次性作用到 length 个等值槽位上，结果必须等于逐槽
//     作用后再 Combine，即
//     Apply(Combine(a, b), d, la+lb) == Combine(Apply(a, d, la), Apply(b, d, lb))。
//
// 懒惰传播的正确性完全依赖上述分配律，实现不得削弱它。
// 代数必须是纯函数，且不得回调持有它的结构。
type Algebra[V, D any] struct {
	Monoid[V]
	NeutralDelta  func() D
	CombineDeltas func(older, newer D) D
	Apply         func(v V, d D, length int) V
}

// Point 以长度 1 作用单个槽位，点更新的便捷入口。
func (a Algebra[V, D]) Point(v V, d D) V {
	return a.Apply(v, d, 1)
}
