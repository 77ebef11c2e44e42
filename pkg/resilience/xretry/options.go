package xretry

import "time"

// 默认参数
const (
	DefaultAttempts = 5
	DefaultDelay    = 100 * time.Millisecond
	DefaultMaxDelay = 5 * time.Second
)

type config struct {
	attempts uint
	delay    time.Duration
	maxDelay time.Duration
	onRetry  func(attempt int, err error)
}

// Option 重试选项
type Option func(*config)

// WithAttempts 总尝试次数（含首次），0 表示直到成功或 ctx 结束
func WithAttempts(n uint) Option {
	return func(c *config) { c.attempts = n }
}

// WithDelay 首次重试前的等待，负值视为 0
func WithDelay(d time.Duration) Option {
	return func(c *config) { c.delay = max(d, 0) }
}

// WithMaxDelay 单次等待上限，非正值被忽略
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithOnRetry 每次失败且即将重试时回调，attempt 从 1 开始
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *config) { c.onRetry = fn }
}
