package xlumber

import "os"

// 默认配置
const (
	// DefaultMaxSizeMB 单个文件最大大小（MB）
	DefaultMaxSizeMB = 500

	// DefaultMaxBackups 保留的备份数量
	DefaultMaxBackups = 7

	// DefaultMaxAgeDays 备份保留天数
	DefaultMaxAgeDays = 30

	// DefaultCompress 是否压缩备份
	DefaultCompress = true

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

type config struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
	fileMode   os.FileMode
	onError    func(error)
}

// Option 配置选项
type Option func(*config)

// WithMaxSize 设置单个文件最大大小（MB），超过时 lumberjack 自动轮转
func WithMaxSize(mb int) Option {
	return func(c *config) {
		c.maxSizeMB = mb
	}
}

// WithMaxBackups 设置保留的备份数量，0 表示不按数量清理
func WithMaxBackups(n int) Option {
	return func(c *config) {
		c.maxBackups = n
	}
}

// WithMaxAge 设置备份保留天数，0 表示不按天数清理
func WithMaxAge(days int) Option {
	return func(c *config) {
		c.maxAgeDays = days
	}
}

// WithCompress 设置是否 gzip 压缩备份
func WithCompress(compress bool) Option {
	return func(c *config) {
		c.compress = compress
	}
}

// WithLocalTime 设置备份文件名是否使用本地时间（默认 UTC）
func WithLocalTime(local bool) Option {
	return func(c *config) {
		c.localTime = local
	}
}

// WithFileMode 设置文件权限，0 表示保持 lumberjack 默认的 0600
func WithFileMode(mode os.FileMode) Option {
	return func(c *config) {
		c.fileMode = mode
	}
}

// WithOnError 设置内部错误回调（如 chmod 失败）
//
// 设计决策: 不写日志，避免 Sink 作为日志输出时递归写入。
// 回调不得向同一 Sink 写入。
func WithOnError(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}
