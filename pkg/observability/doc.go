// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，可写入任意 Sink
//   - xmetrics: 统一观测接口，OpenTelemetry 实现（跨度与计数）
//   - xreport: 按冗长级别过滤的进度报告
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 自动从 context 中提取追踪信息注入日志
package observability
