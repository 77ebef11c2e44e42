package xid

import "errors"

var (
	// ErrInvalidConfig 生成器配置无效（包括 sonyflake 初始化失败）
	ErrInvalidConfig = errors.New("xid: invalid config")

	// ErrNilGenerator 生成器未通过 NewGenerator 创建
	ErrNilGenerator = errors.New("xid: nil generator (use NewGenerator to create)")

	// ErrOverTimeLimit 时间分量溢出，不可恢复
	ErrOverTimeLimit = errors.New("xid: time component overflow")

	// ErrInvalidID 解析出的 ID 非正
	ErrInvalidID = errors.New("xid: invalid id")
)
