// Package xrun 基于 errgroup 的进程生命周期管理。
//
// [Run] 启动一组服务，任一服务返回错误或收到停止信号（默认 SIGHUP/SIGINT/SIGTERM/SIGQUIT）
// 时取消其余服务并等待全部退出。由信号触发的退出返回 [*SignalError]，
// 可用 errors.Is(err, ErrSignal) 区分正常停止与故障。
//
// [OnSignal] 把非停止类信号（如 SIGUSR1）转为回调，xsinkctl 用它请求手动切分：
//
//	err := xrun.Run(ctx, []xrun.Option{xrun.WithLogger(logger)},
//		xrun.Service{Name: "pump", Run: p.Run},
//		xrun.Service{Name: "cut-signal", Run: xrun.OnSignal(p.RequestCut, syscall.SIGUSR1)},
//	)
package xrun
