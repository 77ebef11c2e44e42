package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口
//
// 方法都接收 context.Context，trace_id/span_id 由 [EnrichHandler] 从中提取。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// Log 以任意级别记录，用于 [LevelTrace] 等非标准级别
	Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr)

	// With 派生带属性的 Logger，与父 Logger 共享级别
	With(attrs ...slog.Attr) Logger
	WithGroup(name string) Logger
}

// Leveler 运行时级别控制，配置热加载通过它生效
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel Build 的返回类型
type LoggerWithLevel interface {
	Logger
	Leveler
}

// ErrorFunc 把错误回调接到 l 上
//
// Sink 内部的非致命错误（如 xlumber 权限调整、xloop 释放失败）通过 OnError 回调上报，
// 返回的函数以 level 记录 msg，并附带 component 与 error 属性；nil 错误被忽略。
func ErrorFunc(l Logger, level Level, component, msg string) func(error) {
	return func(err error) {
		if err == nil || l == nil {
			return
		}
		l.Log(context.Background(), level, msg, Component(component), Err(err))
	}
}
