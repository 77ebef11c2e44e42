package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xsink/pkg/observability/xlog"
	"github.com/omeyang/xsink/pkg/observability/xmetrics"
	"github.com/omeyang/xsink/pkg/sink/xfilesink"
	"github.com/omeyang/xsink/pkg/sink/xlumber"
	"github.com/omeyang/xsink/pkg/sink/xredis"
	"github.com/omeyang/xsink/pkg/sink/xsink"
)

// newTarget 按配置构造被 Loop 包装的目标 Sink
//
// 返回的 cleanup 释放目标之外的资源（如 Redis 连接），不关闭目标本身。
func newTarget(cfg pipeConfig, logger xlog.Logger, observer xmetrics.Observer) (xsink.Sink, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Sink {
	case sinkFile:
		opts := []xfilesink.Option{}
		if cfg.File.Ext != "" {
			opts = append(opts, xfilesink.WithExt(cfg.File.Ext))
		}
		if cfg.File.BufferSize > 0 {
			opts = append(opts, xfilesink.WithBufferSize(cfg.File.BufferSize))
		}
		s, err := xfilesink.New(cfg.File.Dir, cfg.File.Prefix, opts...)
		if err != nil {
			return nil, nil, &usageError{err: err}
		}
		return s, noop, nil

	case sinkLumberjack:
		s, err := xlumber.New(cfg.Lumberjack.Filename,
			xlumber.WithMaxSize(cfg.Lumberjack.MaxSizeMB),
			xlumber.WithMaxBackups(cfg.Lumberjack.MaxBackups),
			xlumber.WithMaxAge(cfg.Lumberjack.MaxAgeDays),
			xlumber.WithCompress(cfg.Lumberjack.Compress),
			xlumber.WithLocalTime(cfg.Lumberjack.LocalTime),
			xlumber.WithOnError(xlog.ErrorFunc(logger, xlog.LevelWarn, "xlumber", "lumberjack file mode")),
		)
		if err != nil {
			return nil, nil, &usageError{err: err}
		}
		return s, noop, nil

	case sinkRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		opts := []xredis.Option{xredis.WithObserver(observer)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, xredis.WithTTL(cfg.Redis.TTL))
		}
		if cfg.Redis.OpTimeout > 0 {
			opts = append(opts, xredis.WithOpTimeout(cfg.Redis.OpTimeout))
		}
		if cfg.Redis.BreakerFailures > 0 {
			opts = append(opts, xredis.WithBreaker(cfg.Redis.BreakerFailures, cfg.Redis.BreakerTimeout))
		}
		s, err := xredis.New(client, cfg.Redis.Prefix, opts...)
		if err != nil {
			_ = client.Close() //nolint:errcheck // 构造失败路径
			return nil, nil, &usageError{err: err}
		}
		return s, client.Close, nil

	default:
		return nil, nil, usagef("unknown sink %q", cfg.Sink)
	}
}

// describeTarget 用于启动日志
func describeTarget(cfg pipeConfig) string {
	switch cfg.Sink {
	case sinkFile:
		return fmt.Sprintf("file dir=%s prefix=%s", cfg.File.Dir, cfg.File.Prefix)
	case sinkLumberjack:
		return "lumberjack " + cfg.Lumberjack.Filename
	default:
		return fmt.Sprintf("redis %s prefix=%s", cfg.Redis.Addr, cfg.Redis.Prefix)
	}
}
