// Package xredis 提供以 Redis 字符串键为分段的 Sink 实现。
//
// 每次 Open 生成一个分段键 <prefix>:<id>，写入以 APPEND 命令排入 pipeline，
// Flush 时一次性执行。Close 刷新剩余命令，为分段键设置 TTL，
// 并把键追加到索引列表 <prefix>:segments，消费方按顺序读取即可还原整个流。
//
// 排队字节数达到 WithMaxPending 时 Write 会自动刷新，防止 pipeline 无限增长。
//
// 所有网络操作使用 WithOpTimeout 作为超时；CanWrite 以 PING 探测连接，
// 超时由调用方传入。
//
// 所有方法并发安全。
package xredis
