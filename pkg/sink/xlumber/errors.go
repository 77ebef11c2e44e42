package xlumber

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xlumber: filename is required")

	// ErrInvalidMaxSize MaxSizeMB 必须在 1~10240 范围内
	ErrInvalidMaxSize = errors.New("xlumber: invalid MaxSizeMB")

	// ErrInvalidMaxBackups MaxBackups 必须在 0~1024 范围内
	ErrInvalidMaxBackups = errors.New("xlumber: invalid MaxBackups")

	// ErrInvalidMaxAge MaxAgeDays 必须在 0~3650 范围内
	ErrInvalidMaxAge = errors.New("xlumber: invalid MaxAgeDays")

	// ErrNoCleanupPolicy MaxBackups 和 MaxAgeDays 不能同时为 0
	ErrNoCleanupPolicy = errors.New("xlumber: no cleanup policy configured")

	// ErrInvalidFileMode 仅允许权限位（0000~0777）
	ErrInvalidFileMode = errors.New("xlumber: invalid FileMode")
)
