// Package xlog 基于 log/slog 的结构化日志库。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，后续 Set 的结果以该错误为准）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xsinkctl/xsinkctl.log", xlumber.WithMaxSize(100)).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// 输出目标三选一，后设置的生效：
//   - SetOutput: 任意 io.Writer
//   - SetSink: 任意 xsink.Sink，经 xsink.NewWriter 适配，Build 时打开
//   - SetRotation: 基于 xlumber 的轮转文件
//
// # Context 注入
//
// 默认启用 EnrichHandler：context 中存在有效的 OpenTelemetry span 时，
// 自动追加 trace_id 与 span_id。
//
// # 全局 Logger
//
// [Default]、[SetDefault]、[ResetDefault] 以及 [Debug]、[Info]、[Warn]、[Error]
// 适用于命令行工具等简单场景，库代码应显式持有 Logger。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// Level 实现 encoding.TextMarshaler/TextUnmarshaler，可直接从配置反序列化。
// 构建出的 Logger 实现 [Leveler]，支持运行时调整级别（xsinkctl 的配置热更新依赖于此）。
package xlog
