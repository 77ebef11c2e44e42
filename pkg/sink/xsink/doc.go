// Package xsink 定义字节输出目标（Sink）的抽象能力。
//
// Sink 是一个带显式打开/关闭生命周期的字节流目标，可能阻塞，允许部分写入。
// 具体实现（文件、lumberjack、Redis 等）位于 pkg/sink 下的兄弟包，
// 装饰器（如 xloop）同样实现 Sink，可以在任何需要 Sink 的地方透明组合。
//
// # 操作约定
//
//   - Open: 打开目标；返回 nil 表示成功
//   - IsOpen: 查询是否处于打开状态
//   - CanWrite: 在给定超时内等待可写
//   - Write: 写入字节，返回实际写入数量（可能小于 len(p)）
//   - Flush: 刷新缓冲数据
//   - Close: 关闭目标
//   - Cut: 外部触发的硬切分，与自动轮转相互独立
//
// # 并发
//
// Sink 接口本身不要求并发安全，调用方应保证同一实例只有一个写入者。
// 具体实现若提供更强保证，会在各自文档中说明。
//
// # io.Writer 适配
//
// [NewWriter] 将任意 Sink 适配为 [io.WriteCloser]，可直接作为 xlog 的输出目标。
package xsink
