package main

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xsink/pkg/config/xconf"
	"github.com/omeyang/xsink/pkg/observability/xlog"
	"github.com/omeyang/xsink/pkg/observability/xreport"
	"github.com/omeyang/xsink/pkg/sink/xlumber"
)

// 支持的 Sink 类型
const (
	sinkFile       = "file"
	sinkLumberjack = "lumberjack"
	sinkRedis      = "redis"
)

type fileConfig struct {
	Dir        string `koanf:"dir"`
	Prefix     string `koanf:"prefix"`
	Ext        string `koanf:"ext"`
	BufferSize int    `koanf:"buffer_size"`
}

type lumberConfig struct {
	Filename   string `koanf:"filename"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
	LocalTime  bool   `koanf:"local_time"`
}

type redisConfig struct {
	Addr      string        `koanf:"addr"`
	Prefix    string        `koanf:"prefix"`
	TTL       time.Duration `koanf:"ttl"`
	OpTimeout time.Duration `koanf:"op_timeout"`

	// BreakerFailures 连续失败多少次后熔断，0 表示不启用
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

type logConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// pipeConfig pipe 命令的完整配置
type pipeConfig struct {
	Sink         string        `koanf:"sink"`
	Limit        int64         `koanf:"limit"`
	Period       time.Duration `koanf:"period"`
	Verbosity    uint          `koanf:"verbosity"`
	CutCron      string        `koanf:"cut_cron"`
	Chunk        int           `koanf:"chunk"`
	OpenAttempts uint          `koanf:"open_attempts"`

	File       fileConfig   `koanf:"file"`
	Lumberjack lumberConfig `koanf:"lumberjack"`
	Redis      redisConfig  `koanf:"redis"`
	Log        logConfig    `koanf:"log"`
}

func defaultConfig() pipeConfig {
	return pipeConfig{
		Sink:         sinkFile,
		Limit:        64 << 20,
		Verbosity:    xreport.DefaultVerbosity,
		Chunk:        32 << 10,
		OpenAttempts: 5,
		File: fileConfig{
			Dir:    ".",
			Prefix: "xsink",
		},
		Lumberjack: lumberConfig{
			Filename:   "xsink.log",
			MaxSizeMB:  xlumber.DefaultMaxSizeMB,
			MaxBackups: 7,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Redis: redisConfig{
			Addr:           "localhost:6379",
			Prefix:         "xsink",
			BreakerTimeout: 30 * time.Second,
		},
		Log: logConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// cronParser 支持可选的秒字段与 @every 等描述符
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// loadConfig 默认值 < 配置文件 < 命令行参数
func loadConfig(cmd *cli.Command) (pipeConfig, *xconf.Config, error) {
	cfg := defaultConfig()

	var file *xconf.Config
	if path := cmd.String("config"); path != "" {
		var err error
		file, err = xconf.New(path)
		if err != nil {
			return cfg, nil, &usageError{err: err}
		}
		if err := file.Unmarshal("", &cfg); err != nil {
			return cfg, nil, &usageError{err: err}
		}
	}

	applyFlags(cmd, &cfg)
	if err := cfg.validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, file, nil
}

// applyFlags 只覆盖显式设置的参数
func applyFlags(cmd *cli.Command, cfg *pipeConfig) {
	setString := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if cmd.IsSet(name) {
			*dst = cmd.Int(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if cmd.IsSet(name) {
			*dst = cmd.Bool(name)
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if cmd.IsSet(name) {
			*dst = cmd.Duration(name)
		}
	}

	setString("sink", &cfg.Sink)
	if cmd.IsSet("limit") {
		cfg.Limit = cmd.Int64("limit")
	}
	setDuration("period", &cfg.Period)
	if cmd.IsSet("verbosity") {
		cfg.Verbosity = cmd.Uint("verbosity")
	}
	setString("cut-cron", &cfg.CutCron)
	setInt("chunk", &cfg.Chunk)
	if cmd.IsSet("open-attempts") {
		cfg.OpenAttempts = cmd.Uint("open-attempts")
	}

	setString("dir", &cfg.File.Dir)
	setString("prefix", &cfg.File.Prefix)
	setString("ext", &cfg.File.Ext)
	setInt("buffer-size", &cfg.File.BufferSize)

	setString("filename", &cfg.Lumberjack.Filename)
	setInt("max-size", &cfg.Lumberjack.MaxSizeMB)
	setInt("max-backups", &cfg.Lumberjack.MaxBackups)
	setInt("max-age", &cfg.Lumberjack.MaxAgeDays)
	setBool("compress", &cfg.Lumberjack.Compress)
	setBool("local-time", &cfg.Lumberjack.LocalTime)

	setString("redis-addr", &cfg.Redis.Addr)
	setString("redis-prefix", &cfg.Redis.Prefix)
	setDuration("redis-ttl", &cfg.Redis.TTL)
	setDuration("redis-op-timeout", &cfg.Redis.OpTimeout)

	setString("log-level", &cfg.Log.Level)
	setString("log-format", &cfg.Log.Format)
	setString("log-file", &cfg.Log.File)
}

// validate 只检查 CLI 层的约束，Sink 自身的参数由各构造函数校验
func (c *pipeConfig) validate() error {
	switch c.Sink {
	case sinkFile, sinkLumberjack, sinkRedis:
	default:
		return usagef("unknown sink %q, want file|lumberjack|redis", c.Sink)
	}
	if c.Limit <= 0 {
		return usagef("limit must be positive, got %d", c.Limit)
	}
	if c.Period < 0 || c.Period%time.Second != 0 {
		return usagef("period must be a non-negative whole number of seconds, got %s", c.Period)
	}
	if c.Chunk <= 0 {
		return usagef("chunk must be positive, got %d", c.Chunk)
	}
	if c.CutCron != "" {
		if _, err := cronParser.Parse(c.CutCron); err != nil {
			return usagef("invalid cut-cron %q: %w", c.CutCron, err)
		}
	}
	if _, err := xlog.ResolveLevel(c.Log.Level, c.Verbosity); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// reloadable 配置文件变更时可热更新的字段
type reloadable struct {
	Verbosity uint
	LogLevel  string
}

// readReloadable 读取变更后的配置，命令行显式设置的字段保持不变
func readReloadable(cmd *cli.Command, file *xconf.Config, current pipeConfig) (reloadable, error) {
	r := reloadable{Verbosity: current.Verbosity, LogLevel: current.Log.Level}

	k := file.Client()
	if !cmd.IsSet("verbosity") && k.Exists("verbosity") {
		v := k.Int64("verbosity")
		if v < 0 {
			return r, fmt.Errorf("verbosity must not be negative, got %d", v)
		}
		r.Verbosity = uint(v)
	}
	if !cmd.IsSet("log-level") && k.Exists("log.level") {
		level := k.String("log.level")
		if _, err := xlog.ResolveLevel(level, r.Verbosity); err != nil {
			return r, err
		}
		r.LogLevel = level
	}
	return r, nil
}
