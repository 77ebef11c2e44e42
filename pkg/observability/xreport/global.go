package xreport

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// 全局 Reporter
//
// 定位：脚手架/小工具等简单场景，库代码应通过选项显式接收 Reporter。
// =============================================================================

var (
	globalReporter atomic.Pointer[Reporter]
	globalMu       sync.Mutex
)

// Default 返回全局 Reporter，首次调用时以默认配置创建
func Default() *Reporter {
	if r := globalReporter.Load(); r != nil {
		return r
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if r := globalReporter.Load(); r != nil {
		return r
	}
	r := New()
	globalReporter.Store(r)
	return r
}

// SetDefault 替换全局 Reporter，nil 被忽略
func SetDefault(r *Reporter) {
	if r == nil {
		return
	}
	globalReporter.Store(r)
}

// ResetDefault 重置全局 Reporter 为未初始化状态（仅用于测试）
func ResetDefault() {
	globalMu.Lock()
	globalReporter.Store(nil)
	globalMu.Unlock()
}

// Report 使用全局 Reporter 报告事件
func Report(v uint, msg string) {
	Default().Report(v, msg)
}

// ReportValue 使用全局 Reporter 报告带附加值的事件
func ReportValue(v uint, msg string, value any) {
	Default().ReportValue(v, msg, value)
}
