package xrun

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/omeyang/xsink/pkg/observability/xlog"
)

// subscribe 测试中替换为注入的信号源
var subscribe = func(sigs []os.Signal) (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return ch, func() { signal.Stop(ch) }
}

// OnSignal 返回一个服务：每收到 sigs 之一就调用 fn，直到 ctx 结束
//
// fn 返回错误时服务以该错误退出。信号在 fn 执行期间到达会合并为一次。
func OnSignal(fn func(ctx context.Context, sig os.Signal) error, sigs ...os.Signal) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if fn == nil {
			return ErrNilFunc
		}
		if len(sigs) == 0 {
			return ErrNoSignals
		}
		ch, stop := subscribe(sigs)
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sig := <-ch:
				if err := fn(ctx, sig); err != nil {
					return err
				}
			}
		}
	}
}

// waitStop 等待停止信号并以 SignalError 取消 group
func (g *group) waitStop(ctx context.Context) {
	ch, stop := subscribe(g.opts.signals)
	defer stop()

	select {
	case <-ctx.Done():
	case sig := <-ch:
		g.opts.logger.Info(ctx, "received signal",
			xlog.Component(g.opts.name), slog.String("signal", sig.String()))
		g.cancel(&SignalError{Signal: sig})
	}
}
