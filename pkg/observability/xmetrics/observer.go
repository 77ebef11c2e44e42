package xmetrics

import "context"

// Op 一次被观测的 Sink 操作
type Op struct {
	// Sink 发起操作的组件，如 xloop、xredis
	Sink string
	// Name 操作名：open、flush、close、cut、rotate
	Name string
	// Remote 操作是否访问远端存储，决定跨度类型
	Remote bool
	// Commands 本次执行的 pipeline 命令数，0 表示不适用
	Commands int
	// Bytes 本次操作涉及的字节数，0 表示不适用
	Bytes int64
}

// Rotation 一次分段轮转
type Rotation struct {
	Sink string
	// Reason 触发原因：size 或 period
	Reason string
	// SegmentBytes 被结束分段的累计字节数
	SegmentBytes int64
	// Err 重新打开目标失败时非 nil
	Err error
}

// BreakerState 熔断器状态，取值与 gobreaker 一致
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

// String 返回状态名
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	case BreakerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerChange 熔断器状态迁移
type BreakerChange struct {
	Name     string
	From, To BreakerState
}

// Span 一次操作的跨度，End 可重复调用，只记录第一次
type Span interface {
	End(err error)
}

// Observer 分段写入的观测接口
//
// Rotated 应在 rotate 操作的跨度结束前调用，实现可把事件挂到 ctx 中的跨度上。
type Observer interface {
	Start(ctx context.Context, op Op) (context.Context, Span)
	Rotated(ctx context.Context, r Rotation)
	BreakerChanged(ctx context.Context, c BreakerChange)
}

// NoopObserver 空实现
type NoopObserver struct{}

// Start 返回 ctx 与空跨度
func (NoopObserver) Start(ctx context.Context, _ Op) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, noopSpan{}
}

// Rotated 空实现
func (NoopObserver) Rotated(context.Context, Rotation) {}

// BreakerChanged 空实现
func (NoopObserver) BreakerChanged(context.Context, BreakerChange) {}

type noopSpan struct{}

func (noopSpan) End(error) {}

// Start 以 obs 开始观测；obs 为 nil 或返回 nil 时兜底为空跨度
func Start(ctx context.Context, obs Observer, op Op) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if obs == nil {
		return ctx, noopSpan{}
	}
	retCtx, span := obs.Start(ctx, op)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = noopSpan{}
	}
	return retCtx, span
}
