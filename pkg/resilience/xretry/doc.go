// Package xretry 基于 avast/retry-go/v5 的重试执行。
//
// 重试属于 xloop 之上的调用方：xloop 本身从不重试，失败原样上抛。
// xsinkctl 用 [OpenSink] 重试首次打开（例如 Redis 尚未就绪）。
//
// 退避为指数退避：第 n 次重试前等待 delay·2^(n-1)，上限 maxDelay，不加抖动。
// 用 [Permanent] 包装的错误立即终止重试。
package xretry
