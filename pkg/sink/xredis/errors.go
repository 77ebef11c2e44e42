package xredis

import "errors"

var (
	// ErrNilClient 客户端为 nil
	ErrNilClient = errors.New("xredis: nil client")

	// ErrEmptyPrefix 键前缀为空
	ErrEmptyPrefix = errors.New("xredis: prefix is required")

	// ErrInvalidTTL TTL 不能为负
	ErrInvalidTTL = errors.New("xredis: ttl must not be negative")

	// ErrInvalidTimeout 操作超时必须 > 0
	ErrInvalidTimeout = errors.New("xredis: op timeout must be positive")

	// ErrInvalidMaxPending 自动刷新阈值必须 > 0
	ErrInvalidMaxPending = errors.New("xredis: max pending must be positive")
)
