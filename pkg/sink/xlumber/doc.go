// Package xlumber 提供基于 lumberjack 的 Sink 实现。
//
// 所有分段写入同一个文件名，旧分段由 lumberjack 重命名为带时间戳的备份，
// 并按数量、天数清理，可选 gzip 压缩。适合直接作为 xloop 的目标，
// 或通过 xsink.NewWriter 作为 xlog 的输出。
//
// # 与 Sink 约定的对应
//
//   - Open: 标记为打开；此前已写入过数据时先 Rotate，保证每次打开都是新分段
//   - Write: 写入 lumberjack；超过 MaxSize 时 lumberjack 自行轮转
//   - Flush: lumberjack 不缓冲，空操作
//   - Close: 关闭当前文件
//   - Cut: 立即 Rotate
//
// # 文件权限
//
// lumberjack 以 0600 创建文件。WithFileMode 通过 chmod 调整，
// 文件创建到 chmod 之间存在短暂窗口。调整失败通过 WithOnError 回调上报，不影响写入结果。
//
// 注意：lumberjack 的 millRun 协程在 Close 后仍驻留，这是上游限制。
//
// 所有方法并发安全。
package xlumber
