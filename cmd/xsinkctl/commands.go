package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xsink/pkg/config/xconf"
	"github.com/omeyang/xsink/pkg/lifecycle/xrun"
	"github.com/omeyang/xsink/pkg/observability/xlog"
	"github.com/omeyang/xsink/pkg/observability/xmetrics"
	"github.com/omeyang/xsink/pkg/observability/xreport"
	"github.com/omeyang/xsink/pkg/resilience/xretry"
	"github.com/omeyang/xsink/pkg/sink/xloop"
	"github.com/omeyang/xsink/pkg/util/xproc"
)

func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xsinkctl",
		Usage:     "把标准输入写入自动轮转的 Sink",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			createPipeCommand(),
			createVersionCommand(),
		},
		OnUsageError: onUsageError,
		// 禁止 urfave/cli 直接 os.Exit，退出码统一由 exitCode 映射
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

func createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "打印版本信息",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(cmd.Root().Writer, "xsinkctl %s\ncommit: %s\nbuilt: %s\n", Version, GitCommit, BuildTime)
			return err
		},
	}
}

func createPipeCommand() *cli.Command {
	return &cli.Command{
		Name:         "pipe",
		Usage:        "复制标准输入到 Sink，按字节数或时间周期轮转",
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件（yaml/json）", Sources: cli.EnvVars("XSINK_CONFIG")},
			&cli.StringFlag{Name: "sink", Usage: "file | lumberjack | redis", Value: sinkFile},
			&cli.Int64Flag{Name: "limit", Usage: "触发轮转检查的字节数"},
			&cli.DurationFlag{Name: "period", Usage: "对齐周期（整秒），0 表示只按大小轮转"},
			&cli.UintFlag{Name: "verbosity", Aliases: []string{"v"}, Usage: "报告详细级别"},
			&cli.StringFlag{Name: "cut-cron", Usage: "手动切分的 cron 表达式"},
			&cli.IntFlag{Name: "chunk", Usage: "每次读取的字节数"},
			&cli.UintFlag{Name: "open-attempts", Usage: "首次打开的最大尝试次数，0 表示直到成功"},

			&cli.StringFlag{Name: "dir", Usage: "file: 分段目录"},
			&cli.StringFlag{Name: "prefix", Usage: "file: 文件名前缀"},
			&cli.StringFlag{Name: "ext", Usage: "file: 文件扩展名"},
			&cli.IntFlag{Name: "buffer-size", Usage: "file: 写缓冲大小"},

			&cli.StringFlag{Name: "filename", Usage: "lumberjack: 文件路径"},
			&cli.IntFlag{Name: "max-size", Usage: "lumberjack: 单个文件上限（MB）"},
			&cli.IntFlag{Name: "max-backups", Usage: "lumberjack: 保留的备份数"},
			&cli.IntFlag{Name: "max-age", Usage: "lumberjack: 备份保留天数"},
			&cli.BoolFlag{Name: "compress", Usage: "lumberjack: 压缩备份"},
			&cli.BoolFlag{Name: "local-time", Usage: "lumberjack: 备份名使用本地时间"},

			&cli.StringFlag{Name: "redis-addr", Usage: "redis: 地址", Sources: cli.EnvVars("XSINK_REDIS_ADDR")},
			&cli.StringFlag{Name: "redis-prefix", Usage: "redis: 键前缀"},
			&cli.DurationFlag{Name: "redis-ttl", Usage: "redis: 分段过期时间"},
			&cli.DurationFlag{Name: "redis-op-timeout", Usage: "redis: 单次命令超时"},

			&cli.StringFlag{Name: "log-level", Usage: "trace | debug | info | warn | error | auto"},
			&cli.StringFlag{Name: "log-format", Usage: "text | json"},
			&cli.StringFlag{Name: "log-file", Usage: "日志文件（lumberjack 轮转），默认 stderr"},
		},
		Action: runPipe,
	}
}

func runPipe(ctx context.Context, cmd *cli.Command) error {
	cfg, file, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	root := cmd.Root()

	logger, closeLog, err := buildLogger(cfg.Log, cfg.Verbosity, root.ErrWriter)
	if err != nil {
		return &usageError{err: err}
	}
	defer func() { _ = closeLog() }() //nolint:errcheck // 退出路径
	xlog.SetDefault(logger)

	reporter := xreport.New(xreport.WithVerbosity(cfg.Verbosity), xreport.WithOutput(root.Writer))
	defer func() { _ = reporter.Flush() }() //nolint:errcheck // 退出路径

	observer, err := xmetrics.NewOTelObserver()
	if err != nil {
		return err
	}

	target, closeTarget, err := newTarget(cfg, logger, observer)
	if err != nil {
		return err
	}
	defer func() { _ = closeTarget() }() //nolint:errcheck // 退出路径

	loop, err := xloop.New(target, cfg.Limit,
		xloop.WithPeriod(cfg.Period),
		xloop.WithReporter(reporter),
		xloop.WithObserver(observer),
		xloop.WithOnError(xlog.ErrorFunc(logger, xlog.LevelError, "xloop", "release failed")),
	)
	if err != nil {
		return &usageError{err: err}
	}

	logger.Info(ctx, "opening sink", slog.String("target", describeTarget(cfg)),
		slog.Int64("limit", cfg.Limit), xlog.Duration(cfg.Period))
	err = xretry.OpenSink(ctx, loop,
		xretry.WithAttempts(cfg.OpenAttempts),
		xretry.WithOnRetry(func(n int, err error) {
			logger.Warn(ctx, "open failed, retrying", slog.Int("attempt", n), xlog.Err(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}

	p, err := newPump(loop, root.Reader, cfg.Chunk, logger)
	if err != nil {
		return err
	}

	// 输入结束时 pump 取消 runCtx，使其余服务一起退出
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	services := []xrun.Service{
		{Name: "pump", Run: func(ctx context.Context) error {
			defer stop()
			return p.Run(ctx)
		}},
		{Name: "cut-signal", Run: xrun.OnSignal(p.cutOnSignal, syscall.SIGUSR1)},
	}
	if cfg.CutCron != "" {
		services = append(services, xrun.Service{Name: "cut-cron", Run: cronService(cfg.CutCron, p)})
	}
	if file != nil {
		w, err := xconf.Watch(file, reloadHandler(cmd, cfg, logger, reporter))
		if err != nil {
			logger.Warn(ctx, "config watch disabled", xlog.Err(err))
		} else {
			services = append(services, xrun.Service{Name: "config-watch", Run: w.Run})
		}
	}

	err = xrun.Run(runCtx, []xrun.Option{xrun.WithLogger(logger), xrun.WithName("xsinkctl")}, services...)

	copied, rotations, cuts := p.Stats()
	logger.Info(ctx, "exiting", xlog.Bytes(copied),
		slog.Uint64("rotations", rotations), slog.Int64("cuts", cuts))
	return err
}

func buildLogger(cfg logConfig, verbosity uint, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	level, err := xlog.ResolveLevel(cfg.Level, verbosity)
	if err != nil {
		return nil, nil, err
	}
	b := xlog.New().
		SetLevel(level).
		SetFormat(cfg.Format).
		SetAttrs(slog.Int("pid", xproc.ProcessID()), slog.String("process", xproc.ProcessName()))
	if cfg.File != "" {
		b.SetRotation(cfg.File)
	} else {
		b.SetOutput(stderr)
	}
	return b.Build()
}

// cronService 按 expr 定时请求切分
func cronService(expr string, p *pump) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		c := cron.New(cron.WithParser(cronParser))
		if _, err := c.AddFunc(expr, p.RequestCut); err != nil {
			return usagef("invalid cut-cron %q: %w", expr, err)
		}
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	}
}

// reloadHandler 配置文件变更时重新应用 verbosity 与 log.level
func reloadHandler(cmd *cli.Command, cfg pipeConfig, logger xlog.LoggerWithLevel, reporter *xreport.Reporter) xconf.WatchCallback {
	return func(file *xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			logger.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		r, err := readReloadable(cmd, file, cfg)
		if err != nil {
			logger.Warn(ctx, "config reload rejected", xlog.Err(err))
			return
		}
		level, _ := xlog.ResolveLevel(r.LogLevel, r.Verbosity) //nolint:errcheck // readReloadable 已校验
		reporter.SetVerbosity(r.Verbosity)
		logger.SetLevel(level)
		logger.Info(ctx, "config reloaded", slog.Uint64("verbosity", uint64(r.Verbosity)), slog.String("log_level", level.String()))
	}
}
