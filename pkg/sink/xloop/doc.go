// Package xloop 提供按字节数或时间周期自动轮转的 Sink 装饰器。
//
// Loop 包装一个目标 [xsink.Sink]，自身也实现 Sink，
// 可以在任何需要 Sink 的地方透明替换。Loop 转发所有操作，
// 仅在 Write 中更新计数并判断是否需要轮转；
// 轮转即在 Write 返回前同步地关闭并重新打开目标。
//
// # 轮转规则
//
// 自上次打开以来累计写入字节数达到 limit 后：
//   - 未启用周期（period 为 0）：立即轮转，纯按大小切分
//   - 启用周期：计算 now mod period，只有当它小于上一次观测值
//     （即跨过了周期边界）时才轮转，否则记录本次观测值并继续等待
//
// 启用周期时，limit 的作用是"不要过早开始检查"：
// 例如 period 为 1 小时，limit 取略小于一小时写入量的字节数，
// 轮转就会精确地发生在整点之后的第一次写入上。
//
// 首次打开（或 Close 之后的再次打开）会把计数预置为 limit+1，
// 使第一次写入就进入边界检查，第一个分段因此会偏短，
// 之后每个分段都对齐到真实的周期边界。
//
// # 限制
//
// 边界检测依赖相邻两次写入之间不超过一个周期；
// 若写入间隔超过 period，可能漏过一次边界。
// Loop 不会脱离写入主动轮转。
//
// # 使用示例
//
//	target, _ := xfilesink.New("/var/spool/capture", "cap")
//	loop, err := xloop.New(target, 64<<20, xloop.WithPeriod(time.Hour))
//	if err != nil {
//		return err
//	}
//	defer loop.Release()
//
//	if err := loop.Open(); err != nil {
//		return err
//	}
//	if _, err := loop.Write(data); err != nil {
//		return err
//	}
//
// # 并发
//
// Loop 不加锁，同一实例同一时刻只能有一个写入者。
// 需要并发写入时由调用方串行化（参考 xsinkctl 的 pump 协程）。
//
// # 复制
//
// [Loop.Clone] 与 [Loop.Assign] 只复制目标与轮转策略，
// 计数器、周期观测值和打开状态一律重置，
// 得到的 Loop 与刚由 [New] 创建的实例行为一致。
package xloop
