package xmetrics

import "errors"

var (
	// ErrCreateInstrument 创建 OTel 指标失败
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")

	// ErrNilOption 传入了 nil Option
	ErrNilOption = errors.New("xmetrics: nil option")
)
