package xfilesink

import (
	"os"
	"time"
)

// 默认配置
const (
	// DefaultExt 默认扩展名
	DefaultExt = ".bin"

	// DefaultFileMode 默认文件权限
	DefaultFileMode os.FileMode = 0o640

	// DefaultBufferSize 默认写缓冲大小
	DefaultBufferSize = 64 << 10
)

type options struct {
	ext        string
	fileMode   os.FileMode
	bufferSize int
	clock      func() time.Time
	newID      func() (string, error)
}

// Option 配置选项
type Option func(*options)

// WithExt 设置文件扩展名（含前导点），空字符串表示不带扩展名
func WithExt(ext string) Option {
	return func(o *options) {
		o.ext = ext
	}
}

// WithFileMode 设置新文件权限
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithBufferSize 设置写缓冲大小（字节）
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// WithClock 设置文件名时间戳使用的时钟，nil 被忽略
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithIDGenerator 设置文件名中的唯一标识来源，默认为 xid.NewString
func WithIDGenerator(fn func() (string, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
