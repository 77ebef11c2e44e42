package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 key
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyBytes     = "bytes"
	KeySegment   = "segment"
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
)

// Err 错误属性，err 为 nil 时返回空属性（被 slog 忽略）
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 耗时属性，人类可读格式
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Bytes 字节数属性
func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

// Segment 分段标识属性（文件路径、Redis 键等）
func Segment(id string) slog.Attr {
	return slog.String(KeySegment, id)
}
