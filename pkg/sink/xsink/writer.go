package xsink

import (
	"errors"
	"io"
	"sync"
)

// 编译时断言
var _ io.WriteCloser = (*Writer)(nil)

// Writer 将 Sink 适配为 io.WriteCloser
//
// 首次 Write 时若 Sink 未打开则自动 Open。
// Write 会循环写入直到数据全部被接受，满足 io.Writer 契约
// （n < len(p) 时必须返回非 nil 错误）。
// Writer 内部持锁，可被多个 goroutine 共享（例如 slog handler）。
type Writer struct {
	mu     sync.Mutex
	sink   Sink
	closed bool
}

// NewWriter 创建 Sink 的 io.WriteCloser 适配器
func NewWriter(s Sink) (*Writer, error) {
	if s == nil {
		return nil, ErrNilSink
	}
	return &Writer{sink: s}, nil
}

// Write 实现 io.Writer 接口
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, ErrClosed
	}
	if !w.sink.IsOpen() {
		if err := w.sink.Open(); err != nil {
			return 0, err
		}
	}

	total := 0
	for total < len(p) {
		n, err := w.sink.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// Flush 刷新底层 Sink
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if !w.sink.IsOpen() {
		return nil
	}
	return w.sink.Flush()
}

// Close 刷新并关闭底层 Sink
//
// 重复调用返回 [ErrClosed]。
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if !w.sink.IsOpen() {
		return nil
	}
	// 刷新失败仍然关闭，避免目标停留在打开状态
	flushErr := w.sink.Flush()
	return errors.Join(flushErr, w.sink.Close())
}
