package xloop

import "errors"

// 构造错误
var (
	// ErrNilTarget 目标 Sink 为 nil
	ErrNilTarget = errors.New("xloop: nil target")

	// ErrInvalidLimit limit 必须 > 0
	ErrInvalidLimit = errors.New("xloop: limit must be positive")

	// ErrInvalidPeriod period 必须是非负整秒
	ErrInvalidPeriod = errors.New("xloop: period must be a non-negative whole number of seconds")
)

// ErrRotate Write 成功后的自动轮转失败
//
// 返回时 n 仍为目标实际写入的字节数，错误链中包含目标返回的原始错误。
var ErrRotate = errors.New("xloop: rotate failed")
