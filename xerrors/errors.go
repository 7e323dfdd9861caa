// Package xerrors 提供 rangekit 统一的结构化错误类型。
// 所有公开操作返回的错误都是 *Error，携带错误大类、业务码与调用堆栈，
// 并可通过 errors.Is 与哨兵错误（见 range_errors.go）进行匹配。
package xerrors

import (
	"errors"
	"fmt"
	"runtime"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind 错误的大类。
type Kind uint

const (
	// KindUnknown 未分类错误。
	KindUnknown Kind = iota
	// KindDomain 调用方传入了文档约定范围之外的参数：
	// 非法下标、未知节点、要求连通时端点不连通等。
	// 结构在返回 KindDomain 错误后可观测状态保持不变。
	KindDomain
	// KindStructural 调用方破坏了结构不变量（例如构造后修改邻接表）。
	KindStructural
	// KindResource 资源申请失败，原样向上传递。
	KindResource
	// KindInternal 库自身缺陷，正常使用不应出现。
	KindInternal
)

// String 返回大类的可读名称。
func (k Kind) String() string {
	switch k {
	case KindDomain:
		return "Domain"
	case KindStructural:
		return "Structural"
	case KindResource:
		return "Resource"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error 增强型错误结构。
type Error struct {
	Kind    Kind     `json:"kind"`    // 错误大类
	Code    int      `json:"code"`    // 业务自定义错误码
	Message string   `json:"message"` // 对外展示的友好消息
	Detail  string   `json:"detail"`  // 对内调试的详细信息
	Cause   error    `json:"-"`       // 原始错误
	Stack   []string `json:"stack"`   // 堆栈追踪
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %d: %s (%s)", e.Kind.String(), e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %d: %s", e.Kind.String(), e.Code, e.Message)
}

// Unwrap 实现 Go 1.13 解包接口。
func (e *Error) Unwrap() error {
	return e.Cause
}

// New 创建新错误并自动捕获堆栈。
func New(kind Kind, code int, message, detail string, cause error) *Error {
	e := &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
	e.captureStack()
	return e
}

// captureStack 捕获当前调用栈 (深度限制 10 层)。
func (e *Error) captureStack() {
	const depth = 10
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // 跳过 captureStack、New 和上层构造函数。
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		e.Stack = append(e.Stack, fmt.Sprintf("%s:%d (%s)", frame.File, frame.Line, frame.Function))
		if !more || len(e.Stack) >= depth {
			break
		}
	}
}

// With 基于哨兵错误派生一个带格式化细节的新错误。
// 返回的副本以原哨兵为 Cause，因此 errors.Is(derived, sentinel) 成立；
// 哨兵本身不会被修改。
func (e *Error) With(format string, args ...any) *Error {
	derived := &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Detail:  fmt.Sprintf(format, args...),
		Cause:   e,
	}
	derived.captureStack()
	return derived
}

// --- 快捷构造工具 ---

// Domain 创建一个参数域错误。
func Domain(msg string) *Error {
	return New(KindDomain, 400, msg, "", nil)
}

// Structural 创建一个结构不变量错误。
func Structural(msg string) *Error {
	return New(KindStructural, 500, msg, "", nil)
}

// Internal 创建并包装一个内部错误。
func Internal(msg string, cause error) *Error {
	return New(KindInternal, 500, msg, "", cause)
}

// --- 判定工具 ---

// FromError 尝试将任意 error 转换为 *Error。
func FromError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回错误的大类；非 *Error 返回 KindUnknown。
func KindOf(err error) Kind {
	if e, ok := FromError(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsDomain 判断是否为参数域错误。
func IsDomain(err error) bool { return KindOf(err) == KindDomain }

// IsStructural 判断是否为结构不变量错误。
func IsStructural(err error) bool { return KindOf(err) == KindStructural }

// IsResource 判断是否为资源错误。
func IsResource(err error) bool { return KindOf(err) == KindResource }

// --- 协议转换 ---

// GRPCCode 自动映射 gRPC 状态码。
func (e *Error) GRPCCode() codes.Code {
	switch e.Kind {
	case KindDomain:
		return codes.InvalidArgument
	case KindStructural:
		return codes.FailedPrecondition
	case KindResource:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// ToGRPCStatus 将 Error 转换为 gRPC Status。
func (e *Error) ToGRPCStatus() *status.Status {
	return status.New(e.GRPCCode(), e.Message)
}
