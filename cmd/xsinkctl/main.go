// xsinkctl 把标准输入写入按字节数或时间周期自动轮转的 Sink。
//
// 用法:
//
//	xsinkctl pipe [选项] < input
//	xsinkctl version
//
// pipe 命令:
//
//	--config, -c     配置文件（yaml/json），命令行参数优先于文件
//	--sink           file | lumberjack | redis（默认 file）
//	--limit          触发轮转检查的字节数
//	--period         对齐周期（整秒），0 表示只按大小轮转
//	--verbosity      报告详细级别，0 只报告错误，2 报告每次轮转
//	--cut-cron       按 cron 表达式手动切分（如 "@every 1m"）
//	--chunk          每次读取标准输入的字节数
//
// 运行时控制:
//
//	SIGUSR1          请求一次手动切分
//	SIGINT/SIGTERM   刷新并释放当前分段后退出
//	配置文件变更      重新应用 verbosity 与 log.level
//
// 退出码:
//
//	0: 输入结束或收到停止信号后正常退出
//	1: 运行时错误（打开、写入、刷新失败）
//	2: 参数或配置错误
package main

import (
	"context"
	"io"
	"os"
)

// 版本信息，通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run 执行 CLI 并映射退出码
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)
	return exitCode(app.Run(ctx, args), stderr)
}
