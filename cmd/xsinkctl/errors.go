package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xsink/pkg/lifecycle/xrun"
)

// 退出码
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// usageError 参数或配置错误，退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode 把 Run 的返回值映射为退出码
//
// 停止信号触发的退出视为正常结束。
func exitCode(err error, stderr io.Writer) int {
	if err == nil || errors.Is(err, xrun.ErrSignal) {
		return exitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "参数错误: %v\n", ue)
		return exitUsage
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() == exitUsage {
		return exitUsage
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitRuntime
}
