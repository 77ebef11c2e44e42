package xrun

import (
	"os"
	"syscall"

	"github.com/omeyang/xsink/pkg/observability/xlog"
)

// Option Run 的选项
type Option func(*options)

type options struct {
	logger          xlog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
}

func defaultOptions() options {
	return options{
		logger:  xlog.Default(),
		name:    "xrun",
		signals: DefaultSignals(),
	}
}

// DefaultSignals 默认停止信号
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// WithLogger 生命周期日志，nil 被忽略
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName 日志中的 group 名
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 替换停止信号集合，空集合等价于 WithoutSignalHandler
func WithSignals(signals ...os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *options) {
		o.signals = copied
	}
}

// WithoutSignalHandler 不监听停止信号，由调用方通过 ctx 控制退出
func WithoutSignalHandler() Option {
	return func(o *options) {
		o.noSignalHandler = true
	}
}
