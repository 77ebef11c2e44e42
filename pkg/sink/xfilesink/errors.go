package xfilesink

import "errors"

var (
	// ErrEmptyDir 目录为空
	ErrEmptyDir = errors.New("xfilesink: dir is required")

	// ErrInvalidPrefix 前缀为空或包含路径分隔符
	ErrInvalidPrefix = errors.New("xfilesink: invalid prefix")

	// ErrInvalidExt 扩展名包含路径分隔符
	ErrInvalidExt = errors.New("xfilesink: invalid ext")

	// ErrInvalidBufferSize 缓冲区大小必须 > 0
	ErrInvalidBufferSize = errors.New("xfilesink: invalid buffer size")

	// ErrInvalidFileMode 仅允许权限位（0000~0777）
	ErrInvalidFileMode = errors.New("xfilesink: invalid file mode")
)
