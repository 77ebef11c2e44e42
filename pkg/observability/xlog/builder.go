package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xsink/pkg/sink/xlumber"
	"github.com/omeyang/xsink/pkg/sink/xsink"
)

// ReplaceAttrFunc 属性替换函数，返回空 Key 的 Attr 会移除该属性
type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

// Builder 日志配置构建器
type Builder struct {
	output       io.Writer
	sink         xsink.Sink // Build 时打开，cleanup 时关闭
	levelVar     *slog.LevelVar
	format       string
	addSource    bool
	enableEnrich bool
	attrs        []slog.Attr
	replaceAttr  ReplaceAttrFunc
	onError      func(error)
	err          error
}

// New 创建配置构建器，默认 stderr、Info、text、启用 enrich
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	return &Builder{
		output:       os.Stderr,
		levelVar:     levelVar,
		format:       "text",
		enableEnrich: true,
	}
}

func (b *Builder) setErr(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetOutput 设置输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		return b.setErr(ErrNilOutput)
	}
	b.output = w
	b.sink = nil
	return b
}

// SetSink 以 Sink 作为输出目标
//
// Build 时若 Sink 尚未打开则打开它；cleanup 刷新并关闭它。
// 可与 xloop 组合，使日志本身也按字节数或时间周期分段。
func (b *Builder) SetSink(s xsink.Sink) *Builder {
	if s == nil {
		return b.setErr(ErrNilOutput)
	}
	b.sink = s
	b.output = nil
	return b
}

// SetRotation 输出到由 lumberjack 轮转的文件
func (b *Builder) SetRotation(filename string, opts ...xlumber.Option) *Builder {
	s, err := xlumber.New(filename, opts...)
	if err != nil {
		return b.setErr(err)
	}
	return b.SetSink(s)
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		return b.setErr(err)
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值视为 text
func (b *Builder) SetFormat(format string) *Builder {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		return b.setErr(fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
	return b
}

// SetAddSource 是否记录源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetEnrich 是否从 context 注入 trace_id/span_id，默认启用
func (b *Builder) SetEnrich(enable bool) *Builder {
	b.enableEnrich = enable
	return b
}

// SetAttrs 追加每条日志都携带的固定属性（如 pid、进程名）
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// SetOnError 设置内部错误回调
//
// 回调在写日志的 goroutine 上同步执行，应保持轻量。回调内部再次触发的日志错误不会递归回调。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// SetReplaceAttr 设置属性替换函数，用于脱敏、重命名等治理场景
//
//	logger, _, _ := xlog.New().
//		SetReplaceAttr(func(groups []string, a slog.Attr) slog.Attr {
//			if a.Key == "password" {
//				return slog.String(a.Key, "***")
//			}
//			return a
//		}).
//		Build()
func (b *Builder) SetReplaceAttr(fn ReplaceAttrFunc) *Builder {
	b.replaceAttr = fn
	return b
}

// Build 构建 Logger
//
// 返回的 cleanup 幂等，负责关闭通过 SetSink/SetRotation 设置的输出。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	out := b.output
	var sw *xsink.Writer
	if b.sink != nil {
		if !b.sink.IsOpen() {
			if err := b.sink.Open(); err != nil {
				return nil, nil, fmt.Errorf("xlog: open sink: %w", err)
			}
		}
		w, err := xsink.NewWriter(b.sink)
		if err != nil {
			return nil, nil, err
		}
		sw, out = w, w
	}

	opts := &slog.HandlerOptions{
		Level:       b.levelVar,
		AddSource:   b.addSource,
		ReplaceAttr: levelNameReplacer(b.replaceAttr),
	}

	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	if b.enableEnrich {
		eh, err := NewEnrichHandler(handler)
		if err != nil {
			return nil, nil, err
		}
		handler = eh
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		addSource:      b.addSource,
		inErrorHandler: new(atomic.Bool),
	}
	return logger, createCleanup(sw), nil
}

// createCleanup 只关闭由 Builder 打开的 Sink，SetOutput 传入的 io.Writer 由调用方管理
func createCleanup(sw *xsink.Writer) func() error {
	var once sync.Once
	var err error

	return func() error {
		once.Do(func() {
			if sw != nil {
				err = sw.Close()
				if errors.Is(err, xsink.ErrClosed) {
					err = nil
				}
			}
		})
		return err
	}
}

// levelNameReplacer 顶层 level 字段输出 [Level.String]（TRACE 而非 DEBUG-4），再交给 next
func levelNameReplacer(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.LevelKey {
			if l, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(Level(l).String())
			}
		}
		if next != nil {
			return next(groups, a)
		}
		return a
	}
}
