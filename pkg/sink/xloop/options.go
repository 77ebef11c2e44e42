package xloop

import (
	"time"

	"github.com/omeyang/xsink/pkg/observability/xmetrics"
	"github.com/omeyang/xsink/pkg/observability/xreport"
)

type options struct {
	period   time.Duration
	clock    func() time.Time
	reporter *xreport.Reporter
	observer xmetrics.Observer
	onError  func(error)
}

func defaultOptions() options {
	return options{
		clock:    time.Now,
		observer: xmetrics.NoopObserver{},
	}
}

// Option Loop 配置选项
type Option func(*options)

// WithPeriod 设置对齐周期
//
// d 必须是非负整秒，0 表示关闭时间对齐（纯按大小轮转）。
// 非法值在 [New] 中返回 [ErrInvalidPeriod]。
func WithPeriod(d time.Duration) Option {
	return func(o *options) {
		o.period = d
	}
}

// WithClock 设置时钟，nil 被忽略（主要用于测试）
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithReporter 设置事件报告器
//
// 未设置时使用 [xreport.Default]。轮转事件以级别 2 报告，
// Release 时的关闭失败以级别 0 报告。
func WithReporter(r *xreport.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithObserver 设置观测器，每次轮转与 Cut 记录一个跨度
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithOnError 设置 Release 失败回调
//
// Release 不返回错误，关闭失败只能通过此回调和报告器观察到。
// 回调中的 panic 会被隔离。
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
