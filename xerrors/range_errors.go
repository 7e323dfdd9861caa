package xerrors

var (
	// ErrIndexOutOfRange 下标越界。
	ErrIndexOutOfRange = New(KindDomain, 400101, "index out of range", "index must be within [0, n)", nil)
	// ErrBadRange 区间端点越界或顺序非法。
	ErrBadRange = New(KindDomain, 400102, "bad range", "range endpoints must be within [0, n)", nil)
	// ErrBadCoordinates 二维坐标越界。
	ErrBadCoordinates = New(KindDomain, 400103, "bad coordinates", "coordinates must be within the logical grid", nil)
	// ErrEmptyStructure 结构长度必须为正。
	ErrEmptyStructure = New(KindDomain, 400104, "empty structure", "length must be positive", nil)
	// ErrUnknownNode 节点编号不存在。
	ErrUnknownNode = New(KindDomain, 400105, "unknown node", "node id is not part of the structure", nil)
	// ErrNodeExists 节点编号已存在。
	ErrNodeExists = New(KindDomain, 400106, "node already exists", "node id is already part of the forest", nil)
	// ErrNotConnected 两端点不连通。
	ErrNotConnected = New(KindDomain, 400107, "nodes not connected", "operation requires both endpoints in one tree", nil)
	// ErrAlreadyConnected 两端点已连通，不能再连边。
	ErrAlreadyConnected = New(KindDomain, 400108, "nodes already connected", "link would create a cycle", nil)
	// ErrNotAnEdge 两端点之间没有直接边。
	ErrNotAnEdge = New(KindDomain, 400109, "not an edge", "cut requires a direct edge between the endpoints", nil)
	// ErrSameEndpoint 边权模式下路径两端不能相同。
	ErrSameEndpoint = New(KindDomain, 400110, "same endpoint", "edge-valued path operations require distinct endpoints", nil)
	// ErrBadTree 邻接表不是一棵连通树。
	ErrBadTree = New(KindDomain, 400111, "bad tree", "adjacency list must describe a connected tree", nil)
)
