// Package sink 提供分段写入目标相关的子包。
//
// 子包列表：
//   - xsink: Sink 接口与 io.WriteCloser 适配
//   - xloop: 按字节数或时间周期自动轮转的 Sink 装饰器
//   - xfilesink: 每个分段一个文件
//   - xlumber: 基于 lumberjack 的滚动文件
//   - xredis: 每个分段一个 Redis 字符串键
package sink
