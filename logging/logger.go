// Package logging 提供统一的结构化日志（slog）封装，
// 支持 OpenTelemetry 追踪上下文注入与 lumberjack 日志切割。
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"go.opentelemetry.io/otel/trace"
)

var (
	// defaultLogger 全局默认 Logger 实例，单例。
	defaultLogger *Logger
	once          sync.Once
)

// Config 日志配置。
type Config struct {
	Module     string // 模块名称，会附加到每条日志上
	Level      string // debug / info / warn / error
	File       string // 日志文件路径，为空则只输出到 stderr
	MaxSize    int    // 每个日志文件最大尺寸 (MB)
	MaxBackups int    // 保留旧日志文件的最大个数
	MaxAge     int    // 保留旧日志文件的最大天数
	Compress   bool   // 是否压缩旧日志
}

// Logger 封装原生 *slog.Logger。
type Logger struct {
	*slog.Logger
	Module string
}

// TraceHandler 装饰 slog.Handler，从 context 中提取并注入 trace_id 与 span_id。
type TraceHandler struct {
	slog.Handler
}

// Handle 在处理日志前注入 OpenTelemetry 的追踪上下文。
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// NewFromConfig 按配置创建 Logger，支持文件切割。
func NewFromConfig(cfg Config) *Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	}

	handler := &TraceHandler{
		Handler: slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}),
	}
	l := slog.New(handler)
	if cfg.Module != "" {
		l = l.With(slog.String("module", cfg.Module))
	}
	return &Logger{Logger: l, Module: cfg.Module}
}

// Default 返回全局默认 Logger（stderr、info 级别），首次调用时初始化。
func Default() *Logger {
	once.Do(func() {
		defaultLogger = NewFromConfig(Config{Module: "rangekit"})
	})
	return defaultLogger
}
