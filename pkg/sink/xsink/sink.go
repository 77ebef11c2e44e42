package xsink

import "time"

//go:generate mockgen -source=sink.go -destination=xsinkmock/sink.go -package=xsinkmock

// Sink 字节输出目标接口
//
// 扩展新实现时，必须满足以下约定：
//   - Write 可以部分写入，返回值 n 必须如实反映目标实际接受的字节数
//   - Open 在已打开状态下的行为由实现决定（装饰器通常会先关闭再重新打开）
//   - 未打开时调用 Write/Flush/Cut 应返回 [ErrNotOpen]
type Sink interface {
	// Open 打开目标，返回 nil 表示成功
	Open() error

	// IsOpen 目标是否处于打开状态
	IsOpen() bool

	// CanWrite 在 timeout 内等待目标可写
	// timeout 为 0 表示立即返回当前状态
	CanWrite(timeout time.Duration) (bool, error)

	// Write 写入数据，返回实际写入的字节数（可能小于 len(p)）
	Write(p []byte) (n int, err error)

	// Flush 刷新缓冲数据到底层存储
	Flush() error

	// Close 关闭目标
	Close() error

	// Cut 外部触发的硬切分
	// 与装饰器的自动轮转相互独立，具体语义由实现定义（例如开始新的文件）
	Cut() error
}
