package xmetrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultInstrumentationName = "github.com/omeyang/xsink/pkg/observability/xmetrics"

// 指标名
const (
	MetricOpTotal           = "xsink.op.total"
	MetricOpDuration        = "xsink.op.duration"
	MetricOpBytes           = "xsink.op.bytes"
	MetricRotationTotal     = "xsink.rotation.total"
	MetricSegmentBytes      = "xsink.segment.bytes"
	MetricBreakerState      = "xsink.breaker.state"
	MetricBreakerTransition = "xsink.breaker.transitions"
)

// 属性键
const (
	keySink     = attribute.Key("sink")
	keyOp       = attribute.Key("op")
	keyStatus   = attribute.Key("status")
	keyBytes    = attribute.Key("bytes")
	keyCommands = attribute.Key("commands")
	keyReason   = attribute.Key("reason")
	keySegment  = attribute.Key("segment_bytes")
	keyBreaker  = attribute.Key("breaker")
	keyFrom     = attribute.Key("from")
	keyTo       = attribute.Key("to")
)

// segmentBuckets 分段大小直方图边界：1KiB 到 1GiB，每档 x4
var segmentBuckets = []float64{
	1 << 10, 1 << 12, 1 << 14, 1 << 16, 1 << 18,
	1 << 20, 1 << 22, 1 << 24, 1 << 26, 1 << 28, 1 << 30,
}

type otelConfig struct {
	name   string
	tracer trace.TracerProvider
	meter  metric.MeterProvider
}

// Option 配置 OTel Observer
type Option func(*otelConfig)

// WithInstrumentationName 设置 instrumentation scope 名称
func WithInstrumentationName(name string) Option {
	return func(c *otelConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，默认取全局
func WithTracerProvider(p trace.TracerProvider) Option {
	return func(c *otelConfig) {
		if p != nil {
			c.tracer = p
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认取全局
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(c *otelConfig) {
		if p != nil {
			c.meter = p
		}
	}
}

// instruments Observer 持有的全部指标
type instruments struct {
	opTotal      metric.Int64Counter
	opDuration   metric.Float64Histogram
	opBytes      metric.Int64Histogram
	rotations    metric.Int64Counter
	segmentBytes metric.Int64Histogram
	breakerState metric.Int64Gauge
	breakerMoves metric.Int64Counter
}

func newInstruments(m metric.Meter) (*instruments, error) {
	var (
		ins  instruments
		errs []error
	)
	track := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, name, err))
		}
	}

	var err error
	ins.opTotal, err = m.Int64Counter(MetricOpTotal,
		metric.WithDescription("sink operations"), metric.WithUnit("{operation}"))
	track(MetricOpTotal, err)
	ins.opDuration, err = m.Float64Histogram(MetricOpDuration,
		metric.WithDescription("sink operation latency"), metric.WithUnit("s"))
	track(MetricOpDuration, err)
	ins.opBytes, err = m.Int64Histogram(MetricOpBytes,
		metric.WithDescription("bytes carried by one sink operation"), metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(segmentBuckets...))
	track(MetricOpBytes, err)
	ins.rotations, err = m.Int64Counter(MetricRotationTotal,
		metric.WithDescription("segment rotations triggered by writes"), metric.WithUnit("{rotation}"))
	track(MetricRotationTotal, err)
	ins.segmentBytes, err = m.Int64Histogram(MetricSegmentBytes,
		metric.WithDescription("size of segments closed by rotation"), metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(segmentBuckets...))
	track(MetricSegmentBytes, err)
	ins.breakerState, err = m.Int64Gauge(MetricBreakerState,
		metric.WithDescription("circuit breaker state: 0 closed, 1 half-open, 2 open"))
	track(MetricBreakerState, err)
	ins.breakerMoves, err = m.Int64Counter(MetricBreakerTransition,
		metric.WithDescription("circuit breaker state transitions"), metric.WithUnit("{transition}"))
	track(MetricBreakerTransition, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &ins, nil
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := otelConfig{
		name:   defaultInstrumentationName,
		tracer: otel.GetTracerProvider(),
		meter:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(&cfg)
	}

	ins, err := newInstruments(cfg.meter.Meter(cfg.name))
	if err != nil {
		return nil, err
	}
	return &otelObserver{tracer: cfg.tracer.Tracer(cfg.name), ins: ins}, nil
}

type otelObserver struct {
	tracer trace.Tracer
	ins    *instruments
}

func (o *otelObserver) Start(ctx context.Context, op Op) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if op.Sink == "" {
		op.Sink = "unknown"
	}
	if op.Name == "" {
		op.Name = "unknown"
	}

	attrs := []attribute.KeyValue{keySink.String(op.Sink), keyOp.String(op.Name)}
	if op.Bytes > 0 {
		attrs = append(attrs, keyBytes.Int64(op.Bytes))
	}
	if op.Commands > 0 {
		attrs = append(attrs, keyCommands.Int(op.Commands))
	}
	kind := trace.SpanKindProducer
	if op.Remote {
		kind = trace.SpanKindClient
	}

	ctx, span := o.tracer.Start(ctx, op.Sink+"."+op.Name,
		trace.WithSpanKind(kind), trace.WithAttributes(attrs...))
	return ctx, &otelSpan{span: span, ins: o.ins, ctx: ctx, op: op, start: time.Now()}
}

// Rotated 计数并记录分段大小；ctx 中有跨度时附加 rotation 事件
func (o *otelObserver) Rotated(ctx context.Context, r Rotation) {
	if ctx == nil {
		ctx = context.Background()
	}
	status := statusOf(r.Err)
	o.ins.rotations.Add(ctx, 1, metric.WithAttributes(
		keySink.String(r.Sink), keyReason.String(r.Reason), keyStatus.String(status)))
	if r.Err == nil {
		o.ins.segmentBytes.Record(ctx, r.SegmentBytes, metric.WithAttributes(
			keySink.String(r.Sink), keyReason.String(r.Reason)))
	}
	trace.SpanFromContext(ctx).AddEvent("segment.rotated", trace.WithAttributes(
		keyReason.String(r.Reason), keySegment.Int64(r.SegmentBytes), keyStatus.String(status)))
}

// BreakerChanged 更新状态仪表并计数迁移
func (o *otelObserver) BreakerChanged(ctx context.Context, c BreakerChange) {
	if ctx == nil {
		ctx = context.Background()
	}
	o.ins.breakerState.Record(ctx, int64(c.To), metric.WithAttributes(keyBreaker.String(c.Name)))
	o.ins.breakerMoves.Add(ctx, 1, metric.WithAttributes(
		keyBreaker.String(c.Name), keyFrom.String(c.From.String()), keyTo.String(c.To.String())))
}

type otelSpan struct {
	span  trace.Span
	ins   *instruments
	ctx   context.Context
	op    Op
	start time.Time
	once  sync.Once
}

func (s *otelSpan) End(err error) {
	s.once.Do(func() {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
		s.span.End()

		// 调用方 ctx 可能已取消，指标仍需记录
		ctx := context.WithoutCancel(s.ctx)
		attrs := metric.WithAttributes(
			keySink.String(s.op.Sink), keyOp.String(s.op.Name), keyStatus.String(statusOf(err)))
		s.ins.opTotal.Add(ctx, 1, attrs)
		s.ins.opDuration.Record(ctx, time.Since(s.start).Seconds(), attrs)
		if s.op.Bytes > 0 {
			s.ins.opBytes.Record(ctx, s.op.Bytes, attrs)
		}
	})
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
