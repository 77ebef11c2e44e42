package xretry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  uint
		wantCalls int
		wantErr   bool
	}{
		{"首次成功", 0, 3, 1, false},
		{"重试后成功", 2, 3, 3, false},
		{"耗尽次数", 5, 3, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errFlaky
				}
				return nil
			}, WithAttempts(tt.attempts), WithDelay(0))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.ErrorIs(t, err, errFlaky)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDo_Permanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errFlaky)
	}, WithAttempts(5), WithDelay(0))

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
	assert.True(t, IsPermanent(err), "标记在 Do 返回后保留")
	assert.Equal(t, errFlaky.Error(), err.Error())
	assert.True(t, IsPermanent(fmt.Errorf("open: %w", err)))
	assert.False(t, IsPermanent(errFlaky))
	assert.False(t, IsPermanent(nil))
	assert.NoError(t, Permanent(nil))
}

func TestDo_OnRetry(t *testing.T) {
	var attempts []int
	err := Do(context.Background(), func(context.Context) error {
		return errFlaky
	}, WithAttempts(3), WithDelay(0), WithOnRetry(func(n int, err error) {
		assert.ErrorIs(t, err, errFlaky)
		attempts = append(attempts, n)
	}))

	require.Error(t, err)
	// 最后一次失败是否回调取决于 retry-go，前两次一定回调且从 1 开始递增
	require.GreaterOrEqual(t, len(attempts), 2)
	for i, n := range attempts {
		assert.Equal(t, i+1, n)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errFlaky
	}, WithAttempts(0), WithDelay(10*time.Millisecond))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_NilFunc(t *testing.T) {
	require.ErrorIs(t, Do(context.Background(), nil), ErrNilFunc)
}

func TestBackoff(t *testing.T) {
	base, limit := 100*time.Millisecond, time.Second
	assert.Equal(t, 100*time.Millisecond, backoff(1, base, limit))
	assert.Equal(t, 200*time.Millisecond, backoff(2, base, limit))
	assert.Equal(t, 400*time.Millisecond, backoff(3, base, limit))
	assert.Equal(t, 800*time.Millisecond, backoff(4, base, limit))
	assert.Equal(t, time.Second, backoff(5, base, limit))
	assert.Equal(t, time.Second, backoff(64, base, limit))
	assert.Zero(t, backoff(3, 0, limit))
}
