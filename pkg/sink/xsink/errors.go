package xsink

import "errors"

var (
	// ErrNotOpen 目标未打开时执行写入/刷新/切分
	ErrNotOpen = errors.New("xsink: sink is not open")

	// ErrClosed 适配器已关闭
	ErrClosed = errors.New("xsink: writer is closed")

	// ErrNilSink 传入的 Sink 为 nil
	ErrNilSink = errors.New("xsink: nil sink")
)
