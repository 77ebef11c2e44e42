package xconf

import "time"

// DefaultDebounce 监视防抖时间
const DefaultDebounce = 100 * time.Millisecond

type options struct {
	delim string
	tag   string
}

// Option 配置加载选项
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{delim: ".", tag: "koanf"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithDelim 键分隔符，默认 "."
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 结构体标签名，默认 "koanf"
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

type watchOptions struct {
	debounce time.Duration
}

// WatchOption 监视选项
type WatchOption func(*watchOptions)

// WithDebounce 防抖时间，窗口内的多次变更只触发一次重载；非正值被忽略
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}
