package xredis

import (
	"time"

	"github.com/omeyang/xsink/pkg/observability/xmetrics"
)

// 默认配置
const (
	// DefaultOpTimeout 单次网络操作超时
	DefaultOpTimeout = 3 * time.Second

	// DefaultMaxPending 排队字节数达到此值时自动刷新
	DefaultMaxPending = 1 << 20
)

type options struct {
	ttl        time.Duration
	opTimeout  time.Duration
	maxPending int
	newID      func() (string, error)
	observer   xmetrics.Observer

	breakerFailures uint32
	breakerTimeout  time.Duration
}

// Option 配置选项
type Option func(*options)

// WithTTL 设置分段键在 Close 后的过期时间，0 表示永不过期
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithOpTimeout 设置网络操作超时
func WithOpTimeout(d time.Duration) Option {
	return func(o *options) {
		o.opTimeout = d
	}
}

// WithMaxPending 设置自动刷新阈值（字节）
func WithMaxPending(n int) Option {
	return func(o *options) {
		o.maxPending = n
	}
}

// WithIDGenerator 设置分段键中的唯一标识来源，默认为 xid.NewString
func WithIDGenerator(fn func() (string, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithObserver 设置观测器，每次执行 pipeline 记录一个跨度
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithBreaker 为 pipeline 执行加熔断
//
// 连续 failures 次执行失败后熔断 openTimeout，期间 Flush/Close 立即返回
// gobreaker.ErrOpenState，CanWrite 返回 false。failures 为 0 表示不启用。
func WithBreaker(failures uint32, openTimeout time.Duration) Option {
	return func(o *options) {
		o.breakerFailures = failures
		o.breakerTimeout = openTimeout
	}
}
