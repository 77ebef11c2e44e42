package xrun

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xsink/pkg/observability/xlog"
)

// Service 命名服务，Name 只用于日志
type Service struct {
	Name string
	Run  func(ctx context.Context) error
}

type group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     options
}

// Run 运行服务直到全部退出
//
// 任一服务返回非 nil 错误时取消其余服务。返回值：
//   - 第一个非取消类错误
//   - 因停止信号退出时返回 *SignalError
//   - 父 ctx 取消导致的退出返回 nil
func Run(ctx context.Context, opts []Option, services ...Service) error {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	g := &group{eg: eg, ctx: egCtx, causeCtx: causeCtx, cancel: cancel, opts: o}
	defer g.cancel(nil)

	if !o.noSignalHandler && len(o.signals) > 0 {
		// 停止信号监听不参与错误传播，随其余服务结束而结束
		stopCtx, stopWatch := context.WithCancel(egCtx)
		defer stopWatch()
		done := make(chan struct{})
		go func() {
			defer close(done)
			g.waitStop(stopCtx)
		}()
		defer func() { stopWatch(); <-done }()
	}

	for _, svc := range services {
		g.start(svc)
	}
	return g.wait()
}

func (g *group) start(svc Service) {
	name := svc.Name
	if name == "" {
		name = "anonymous"
	}
	g.eg.Go(func() error {
		if svc.Run == nil {
			return ErrNilFunc
		}
		attrs := []slog.Attr{xlog.Component(g.opts.name), slog.String("service", name)}
		g.opts.logger.Debug(g.ctx, "service starting", attrs...)

		err := svc.Run(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.opts.logger.Warn(g.ctx, "service exited with error", append(attrs, xlog.Err(err))...)
		} else {
			g.opts.logger.Debug(g.ctx, "service stopped", attrs...)
		}
		return err
	})
}

func (g *group) wait() error {
	err := g.eg.Wait()

	cause := context.Cause(g.causeCtx)
	if g.causeCtx.Err() != nil && cause != nil && !errors.Is(cause, context.Canceled) {
		// 信号或父 ctx 的 cause 优先于服务因取消而返回的错误
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cause
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
