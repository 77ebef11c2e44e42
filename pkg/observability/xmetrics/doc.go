// Package xmetrics 分段写入的观测：操作跨度、轮转与熔断指标。
//
// [Observer] 面向 Sink 的三类事件：一次操作（[Op]）、一次分段轮转（[Rotation]）、
// 一次熔断器状态迁移（[BreakerChange]）。[NewOTelObserver] 基于 OpenTelemetry 实现，
// 未配置 Provider 时使用全局 Provider。
//
// # 指标
//
//   - xsink.op.total / xsink.op.duration：按 sink、op、status
//   - xsink.op.bytes：操作携带的字节数（如 pipeline 刷新量）
//   - xsink.rotation.total：按 sink、reason、status
//   - xsink.segment.bytes：成功轮转结束的分段大小
//   - xsink.breaker.state：0 closed、1 half-open、2 open
//   - xsink.breaker.transitions：按 breaker、from、to
//
// 跨度名为 "<sink>.<op>"，轮转以 segment.rotated 事件挂在 rotate 跨度上。
package xmetrics
