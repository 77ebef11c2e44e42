package xretry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xsink/pkg/sink/xsink"
)

// Do 执行 fn，失败时按指数退避重试
//
// 返回最后一次尝试的错误；ctx 结束时返回 ctx 错误与最后一次错误的组合。
func Do(ctx context.Context, fn func(ctx context.Context) error, opts ...Option) error {
	if fn == nil {
		return ErrNilFunc
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := config{attempts: DefaultAttempts, delay: DefaultDelay, maxDelay: DefaultMaxDelay}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return retry.New(buildOptions(ctx, c)...).Do(func() error {
		return fn(ctx)
	})
}

// OpenSink 重试打开 s，已打开时直接返回
func OpenSink(ctx context.Context, s xsink.Sink, opts ...Option) error {
	if s == nil {
		return ErrNilSink
	}
	return Do(ctx, func(context.Context) error {
		if s.IsOpen() {
			return nil
		}
		return s.Open()
	}, opts...)
}

func buildOptions(ctx context.Context, c config) []retry.Option {
	opts := []retry.Option{
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.WrapContextErrorWithLastError(true),
		retry.RetryIf(retry.IsRecoverable),
		retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
			return backoff(n, c.delay, c.maxDelay)
		}),
	}
	if c.attempts == 0 {
		opts = append(opts, retry.UntilSucceeded())
	} else {
		opts = append(opts, retry.Attempts(c.attempts))
	}
	if c.onRetry != nil {
		// retry-go 的 n 从 0 开始
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			c.onRetry(int(n)+1, err) //#nosec G115 -- 尝试次数远小于 int 上限
		}))
	}
	return opts
}

// backoff n 从 1 开始
func backoff(n uint, base, limit time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base
	for i := uint(1); i < n; i++ {
		if d >= limit/2 {
			return limit
		}
		d *= 2
	}
	return min(d, limit)
}
