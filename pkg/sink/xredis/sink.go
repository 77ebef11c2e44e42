package xredis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xsink/pkg/observability/xmetrics"
	"github.com/omeyang/xsink/pkg/sink/xsink"
	"github.com/omeyang/xsink/pkg/util/xid"
)

// 编译时断言
var _ xsink.Sink = (*Sink)(nil)

// Sink 以 Redis 字符串键为分段的 Sink
type Sink struct {
	client redis.UniversalClient
	prefix string
	opts   options
	cb     *gobreaker.CircuitBreaker[any] // nil 表示未启用熔断

	mu      sync.Mutex
	pipe    redis.Pipeliner
	key     string
	size    int64 // 当前分段已排队或已写入的字节数
	pending int   // 尚未执行的排队字节数
}

// New 创建 Redis Sink
//
// client 的生命周期由调用方管理，Sink 不会关闭它。
func New(client redis.UniversalClient, prefix string, opts ...Option) (*Sink, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	o := options{
		opTimeout:  DefaultOpTimeout,
		maxPending: DefaultMaxPending,
		newID:      xid.NewString,
		observer:   xmetrics.NoopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.ttl < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, o.ttl)
	}
	if o.opTimeout <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTimeout, o.opTimeout)
	}
	if o.maxPending <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxPending, o.maxPending)
	}

	s := &Sink{client: client, prefix: prefix, opts: o}
	if o.breakerFailures > 0 {
		s.cb = newBreaker("xredis:"+prefix, o)
	}
	return s, nil
}

func newBreaker(name string, o options) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    name,
		Timeout: o.breakerTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= o.breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			o.observer.BreakerChanged(context.Background(), xmetrics.BreakerChange{
				Name: name,
				From: breakerState(from),
				To:   breakerState(to),
			})
		},
	})
}

func breakerState(s gobreaker.State) xmetrics.BreakerState {
	switch s {
	case gobreaker.StateHalfOpen:
		return xmetrics.BreakerHalfOpen
	case gobreaker.StateOpen:
		return xmetrics.BreakerOpen
	default:
		return xmetrics.BreakerClosed
	}
}

// BreakerOpen 熔断器是否处于打开状态，未启用时返回 false
func (s *Sink) BreakerOpen() bool {
	return s.cb != nil && s.cb.State() == gobreaker.StateOpen
}

// IndexKey 分段索引列表的键
func (s *Sink) IndexKey() string {
	return s.prefix + ":segments"
}

// Open 开始新分段，已打开时先关闭当前分段
func (s *Sink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipe != nil {
		if err := s.closeLocked(); err != nil {
			return err
		}
	}
	id, err := s.opts.newID()
	if err != nil {
		return fmt.Errorf("xredis: generate segment id: %w", err)
	}
	s.key = s.prefix + ":" + id
	s.pipe = s.client.Pipeline()
	s.size = 0
	s.pending = 0
	return nil
}

// IsOpen 是否有打开的分段
func (s *Sink) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipe != nil
}

// CanWrite 在 timeout 内 PING 服务端
//
// 未打开或熔断时返回 false；超时返回 false 与 nil，其他错误原样返回。
func (s *Sink) CanWrite(timeout time.Duration) (bool, error) {
	if !s.IsOpen() || s.BreakerOpen() {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Write 把 p 以 APPEND 排入 pipeline
//
// 排队字节数达到阈值时自动刷新；刷新失败时 n 仍为 len(p)，数据是否落地取决于服务端。
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipe == nil {
		return 0, xsink.ErrNotOpen
	}
	if len(p) == 0 {
		return 0, nil
	}
	s.pipe.Append(context.Background(), s.key, string(p))
	s.size += int64(len(p))
	s.pending += len(p)

	if s.pending >= s.opts.maxPending {
		if err := s.execLocked("flush"); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush 执行排队的命令
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipe == nil {
		return xsink.ErrNotOpen
	}
	return s.execLocked("flush")
}

// Close 刷新并结束当前分段，未打开时为空操作
//
// 非空分段会设置 TTL 并追加到 [Sink.IndexKey] 列表。
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipe == nil {
		return nil
	}
	return s.closeLocked()
}

// Cut 结束当前分段并开始新分段
func (s *Sink) Cut() error {
	if !s.IsOpen() {
		return xsink.ErrNotOpen
	}
	return s.Open()
}

// Current 当前分段键，未打开时为空
func (s *Sink) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Segments 返回已结束的分段键，按结束顺序
func (s *Sink) Segments(ctx context.Context) ([]string, error) {
	return s.client.LRange(ctx, s.IndexKey(), 0, -1).Result()
}

// closeLocked 必须持有 mu
func (s *Sink) closeLocked() error {
	if s.size > 0 {
		if s.opts.ttl > 0 {
			s.pipe.Expire(context.Background(), s.key, s.opts.ttl)
		}
		s.pipe.RPush(context.Background(), s.IndexKey(), s.key)
	}
	err := s.execLocked("close")

	s.pipe = nil
	s.key = ""
	s.size = 0
	s.pending = 0
	if err != nil {
		return fmt.Errorf("xredis: close segment: %w", err)
	}
	return nil
}

// execLocked 执行 pipeline，必须持有 mu
//
// 熔断拒绝时命令留在 pipeline 中，pending 保持不变。
func (s *Sink) execLocked(op string) error {
	n := s.pipe.Len()
	if n == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.opTimeout)
	defer cancel()
	ctx, span := xmetrics.Start(ctx, s.opts.observer, xmetrics.Op{
		Sink:     "xredis",
		Name:     op,
		Remote:   true,
		Commands: n,
		Bytes:    int64(s.pending),
	})

	ran, err := s.exec(ctx)
	span.End(err)
	if ran {
		s.pending = 0
	}
	return err
}

// exec 返回 pipeline 是否真正执行
func (s *Sink) exec(ctx context.Context) (bool, error) {
	if s.cb == nil {
		_, err := s.pipe.Exec(ctx)
		return true, err
	}
	ran := false
	_, err := s.cb.Execute(func() (any, error) {
		ran = true
		_, err := s.pipe.Exec(ctx)
		return nil, err
	})
	return ran, err
}

// Pending 尚未执行的排队字节数
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
