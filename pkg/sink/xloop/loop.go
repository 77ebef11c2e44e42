package xloop

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/omeyang/xsink/pkg/observability/xmetrics"
	"github.com/omeyang/xsink/pkg/observability/xreport"
	"github.com/omeyang/xsink/pkg/sink/xsink"
)

// 编译时断言：Loop 自身也是 Sink
var _ xsink.Sink = (*Loop)(nil)

// 报告级别
const (
	reportRelease uint = 0
	reportRotate  uint = 2
)

// 轮转原因
const (
	reasonSize   = "size"
	reasonPeriod = "period"
)

// Loop 按字节数或时间周期自动轮转的 Sink 装饰器
//
// 零值不可用，必须通过 [New] 创建。
type Loop struct {
	target xsink.Sink
	limit  int64
	period int64 // 秒，0 表示不对齐

	written int64

	// prevModulus 仅在 hasPrev 为 true 时有效
	prevModulus int64
	hasPrev     bool

	firstPass bool
	rotations uint64

	opts options
}

// New 创建 Loop
//
// limit 为触发轮转检查的累计字节数，必须 > 0。
// 构造失败时不返回实例。
func New(target xsink.Sink, limit int64, opts ...Option) (*Loop, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.period < 0 || o.period%time.Second != 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPeriod, o.period)
	}
	if o.reporter == nil {
		o.reporter = xreport.Default()
	}

	return newLoop(target, limit, o), nil
}

// newLoop 以全新运行状态构造 Loop
func newLoop(target xsink.Sink, limit int64, o options) *Loop {
	return &Loop{
		target:    target,
		limit:     limit,
		period:    int64(o.period / time.Second),
		firstPass: true,
		opts:      o,
	}
}

// Open 打开目标，开始一个新分段
//
// 目标已打开时先 Flush 再 Close，因此对已打开的 Loop 调用 Open 会强制切换分段。
// 首次打开且启用了周期时，计数预置为 limit+1（limit 为 MaxInt64 时饱和），
// 使下一次写入立即进入边界检查。
func (l *Loop) Open() error {
	if l.target.IsOpen() {
		flushErr := l.target.Flush()
		if err := errors.Join(flushErr, l.target.Close()); err != nil {
			return err
		}
	}

	if l.firstPass && l.period > 0 {
		l.written = addSat(l.limit, 1)
	} else {
		l.written = 0
	}
	l.firstPass = false
	l.hasPrev = false
	l.prevModulus = 0

	return l.target.Open()
}

// IsOpen 目标是否已打开
func (l *Loop) IsOpen() bool {
	return l.target.IsOpen()
}

// CanWrite 透传给目标
//
// Loop 不做额外的就绪判断，轮转检查只发生在写入成功之后。
func (l *Loop) CanWrite(timeout time.Duration) (bool, error) {
	return l.target.CanWrite(timeout)
}

// Write 写入目标并在需要时轮转
//
// 返回值 n 始终是目标报告的实际写入字节数，与是否发生轮转无关。
// 目标写入失败时直接返回，不做轮转；轮转失败时返回 n 与包装了 [ErrRotate] 的错误。
func (l *Loop) Write(p []byte) (int, error) {
	n, err := l.target.Write(p)
	l.written = addSat(l.written, int64(n))
	if err != nil {
		return n, err
	}
	if l.written < l.limit {
		return n, nil
	}

	if l.period == 0 {
		return n, l.rotate(reasonSize)
	}

	m := l.modulus()
	if l.hasPrev && m < l.prevModulus {
		return n, l.rotate(reasonPeriod)
	}
	l.prevModulus = m
	l.hasPrev = true
	return n, nil
}

// addSat 饱和加法，b 非负
func addSat(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// modulus 当前时间对周期取模，结果非负
func (l *Loop) modulus() int64 {
	sec := l.opts.clock().Unix()
	return ((sec % l.period) + l.period) % l.period
}

// rotate 关闭并重新打开目标
func (l *Loop) rotate(reason string) error {
	segment := l.written
	ctx, span := xmetrics.Start(context.Background(), l.opts.observer, xmetrics.Op{
		Sink:  "xloop",
		Name:  "rotate",
		Bytes: segment,
	})

	err := l.Open()
	l.opts.observer.Rotated(ctx, xmetrics.Rotation{
		Sink:         "xloop",
		Reason:       reason,
		SegmentBytes: segment,
		Err:          err,
	})
	span.End(err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRotate, err)
	}

	l.rotations++
	l.opts.reporter.ReportValue(reportRotate, "xloop: segment rotated after bytes", segment)
	return nil
}

// Flush 透传给目标
func (l *Loop) Flush() error {
	return l.target.Flush()
}

// Close 关闭目标，并重新武装首次对齐
//
// 之后再次 Open 的行为与首次打开一致。
func (l *Loop) Close() error {
	l.firstPass = true
	return l.target.Close()
}

// Cut 透传给目标，不影响任何轮转状态
func (l *Loop) Cut() error {
	_, span := xmetrics.Start(context.Background(), l.opts.observer, xmetrics.Op{Sink: "xloop", Name: "cut"})
	err := l.target.Cut()
	span.End(err)
	return err
}

// Clone 返回共享同一目标与策略、运行状态全新的 Loop
func (l *Loop) Clone() *Loop {
	return newLoop(l.target, l.limit, l.opts)
}

// Assign 以 src 的目标与策略重新初始化 l，运行状态全部重置
//
// 若 l 当前的目标与 src 不同，先释放 l 的目标。
// src 为 nil 或与 l 相同时不做任何事。
func (l *Loop) Assign(src *Loop) {
	if src == nil || src == l {
		return
	}
	if l.target != nil && l.target != src.target {
		l.Release()
	}
	*l = *newLoop(src.target, src.limit, src.opts)
}

// Release 若目标已打开则关闭之
//
// 设计决策: 清理路径上的关闭失败不向调用方返回，
// 通过 WithOnError 回调与报告器（级别 0）上报。
func (l *Loop) Release() {
	if l.target == nil || !l.target.IsOpen() {
		return
	}
	if err := l.Close(); err != nil {
		l.opts.reporter.ReportValue(reportRelease, "xloop: release failed:", err)
		l.reportError(err)
	}
}

// reportError 回调 panic 被 recover 隔离
func (l *Loop) reportError(err error) {
	if l.opts.onError == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	l.opts.onError(err)
}

// Written 自上次打开以来累计的字节数（含首次对齐的预置值）
func (l *Loop) Written() int64 {
	return l.written
}

// Rotations 由 Write 触发的成功轮转次数
func (l *Loop) Rotations() uint64 {
	return l.rotations
}

// Limit 返回轮转检查的字节阈值
func (l *Loop) Limit() int64 {
	return l.limit
}

// Period 返回对齐周期，0 表示未启用
func (l *Loop) Period() time.Duration {
	return time.Duration(l.period) * time.Second
}
