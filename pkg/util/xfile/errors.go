package xfile

import "errors"

var (
	// ErrEmptyPath 必需的路径参数为空
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 路径格式无效（目录路径、非绝对基准目录等）
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 路径中出现 ".." 段
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrPathEscaped 拼接结果超出基准目录
	ErrPathEscaped = errors.New("xfile: path escapes base directory")

	// ErrNullByte 路径包含空字节，内核会在此截断
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrInvalidPerm 目录权限缺少所有者执行位
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")
)
