package xretry

import (
	"errors"

	retry "github.com/avast/retry-go/v5"
)

var (
	// ErrNilFunc fn 为 nil
	ErrNilFunc = errors.New("xretry: nil func")

	// ErrNilSink OpenSink 的目标为 nil
	ErrNilSink = errors.New("xretry: nil sink")
)

// permanentError 不可重试标记
//
// retry-go 在 Do 返回前会剥掉自己的 Unrecoverable 包装，
// 这一层保证标记经过 [Do] 之后仍可识别。
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记错误不可重试，nil 保持为 nil
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return retry.Unrecoverable(&permanentError{err: err})
}

// IsPermanent 是否被 [Permanent] 标记，对 [Do] 的返回值同样有效
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	var pe *permanentError
	return errors.As(err, &pe) || !retry.IsRecoverable(err)
}
