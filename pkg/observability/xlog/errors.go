package xlog

import "errors"

var (
	// ErrUnknownLevel 无法识别的级别字符串
	ErrUnknownLevel = errors.New("xlog: unknown level")

	// ErrUnknownFormat 格式只支持 text 与 json
	ErrUnknownFormat = errors.New("xlog: unknown format")

	// ErrNilOutput 输出目标为 nil
	ErrNilOutput = errors.New("xlog: nil output")

	// ErrNilHandler NewEnrichHandler 的 base 为 nil
	ErrNilHandler = errors.New("xlog: base handler is nil")
)
