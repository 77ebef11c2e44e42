// Package xreport 提供按详细级别过滤的事件报告器。
//
// 每个事件携带自己的详细级别（0 最重要），只有当报告器阈值
// 大于等于事件级别时才输出。输出格式为一行：
//
//	<pid>: <message>
//	<pid>: <message> <value>
//
// # 显式实例与全局实例
//
// 推荐通过 [New] 创建实例并显式传递（例如 xloop.WithReporter）。
// 脚手架等简单场景可以使用全局实例：
//
//   - [Default]: 获取全局 Reporter（惰性初始化：stdout、阈值 1）
//   - [SetDefault]: 替换全局 Reporter（nil 会被忽略）
//   - [ResetDefault]: 重置为未初始化状态（仅用于测试）
//
// # 并发
//
// 阈值使用原子变量保存，输出目标由互斥锁保护，一行输出只调用一次 Write，
// 多个 goroutine 并发报告时行与行之间不会交错。
package xreport
