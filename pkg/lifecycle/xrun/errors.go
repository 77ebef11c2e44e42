package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 因停止信号退出，[*SignalError] 匹配该错误
	ErrSignal = errors.New("xrun: received signal")

	// ErrNilFunc 服务函数为 nil
	ErrNilFunc = errors.New("xrun: nil service func")

	// ErrNoSignals OnSignal 未指定信号
	ErrNoSignals = errors.New("xrun: no signals")
)

// SignalError 收到的停止信号
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("xrun: received signal %v", e.Signal)
}

// Is 匹配 ErrSignal
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}
