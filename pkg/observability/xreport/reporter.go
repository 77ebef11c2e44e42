package xreport

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xsink/pkg/util/xproc"
)

// DefaultVerbosity 默认详细级别阈值
const DefaultVerbosity uint = 1

// Reporter 事件报告器
//
// nil *Reporter 是合法的空实现：所有报告调用直接返回。
type Reporter struct {
	verbosity atomic.Uint32

	mu  sync.Mutex
	out io.Writer
	pid int
}

// Option Reporter 配置选项
type Option func(*Reporter)

// WithVerbosity 设置初始阈值
func WithVerbosity(v uint) Option {
	return func(r *Reporter) {
		r.verbosity.Store(clampVerbosity(v))
	}
}

// WithOutput 设置输出目标，nil 被忽略
func WithOutput(w io.Writer) Option {
	return func(r *Reporter) {
		if w != nil {
			r.out = w
		}
	}
}

// New 创建 Reporter
//
// 默认阈值为 [DefaultVerbosity]，默认输出到 stdout。
func New(opts ...Option) *Reporter {
	r := &Reporter{
		out: os.Stdout,
		pid: xproc.ProcessID(),
	}
	r.verbosity.Store(uint32(DefaultVerbosity))
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// clampVerbosity 将 uint 收敛到 uint32 范围
func clampVerbosity(v uint) uint32 {
	if uint64(v) > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}

// SetVerbosity 设置阈值，对所有通过该实例报告的事件生效
func (r *Reporter) SetVerbosity(v uint) {
	if r == nil {
		return
	}
	r.verbosity.Store(clampVerbosity(v))
}

// Verbosity 返回当前阈值
func (r *Reporter) Verbosity() uint {
	if r == nil {
		return 0
	}
	return uint(r.verbosity.Load())
}

// SetOutput 设置输出目标，nil 被忽略
func (r *Reporter) SetOutput(w io.Writer) {
	if r == nil || w == nil {
		return
	}
	r.mu.Lock()
	r.out = w
	r.mu.Unlock()
}

// Output 返回当前输出目标
func (r *Reporter) Output() io.Writer {
	if r == nil {
		return io.Discard
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out
}

// Enabled 级别为 v 的事件是否会被输出
func (r *Reporter) Enabled(v uint) bool {
	if r == nil {
		return false
	}
	return uint(r.verbosity.Load()) >= v
}

// Report 报告事件
//
// v 为事件的重要程度，0 最重要。
func (r *Reporter) Report(v uint, msg string) {
	if !r.Enabled(v) {
		return
	}
	r.emit(r.line(msg, nil, false))
}

// ReportValue 报告带一个附加值的事件，附加值以空格分隔追加在消息后
func (r *Reporter) ReportValue(v uint, msg string, value any) {
	if !r.Enabled(v) {
		return
	}
	r.emit(r.line(msg, value, true))
}

// Flush 刷新输出目标
//
// 输出目标实现 Flush() error 或 Sync() error 时调用之，否则为空操作。
func (r *Reporter) Flush() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch w := r.out.(type) {
	case interface{ Flush() error }:
		return w.Flush()
	case interface{ Sync() error }:
		return w.Sync()
	default:
		return nil
	}
}

// line 拼接一行输出
func (r *Reporter) line(msg string, value any, withValue bool) []byte {
	buf := make([]byte, 0, len(msg)+24)
	buf = strconv.AppendInt(buf, int64(r.pid), 10)
	buf = append(buf, ": "...)
	buf = append(buf, msg...)
	if withValue {
		buf = append(buf, ' ')
		buf = fmt.Append(buf, value)
	}
	return append(buf, '\n')
}

// emit 写出一行
//
// 设计决策: 报告器是诊断通道，写失败无处可报，直接丢弃错误。
func (r *Reporter) emit(line []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.out.Write(line)
}
