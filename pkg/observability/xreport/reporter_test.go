package xreport

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pidPrefix() string {
	return strconv.Itoa(os.Getpid()) + ": "
}

func TestNew_Defaults(t *testing.T) {
	r := New()
	assert.Equal(t, DefaultVerbosity, r.Verbosity())
	assert.Equal(t, os.Stdout, r.Output())
}

// TestReport_Filtering 阈值大于等于事件级别时才输出
func TestReport_Filtering(t *testing.T) {
	tests := []struct {
		name      string
		threshold uint
		event     uint
		want      bool
	}{
		{"阈值等于事件级别", 3, 3, true},
		{"阈值高于事件级别", 5, 0, true},
		{"阈值低于事件级别", 1, 2, false},
		{"阈值为零只输出最重要事件", 0, 0, true},
		{"阈值为零过滤级别一", 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := New(WithOutput(&buf), WithVerbosity(tt.threshold))

			r.Report(tt.event, "event")

			assert.Equal(t, tt.want, buf.Len() > 0)
			assert.Equal(t, tt.want, r.Enabled(tt.event))
		})
	}
}

func TestReport_Format(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithOutput(&buf))

	r.Report(0, "segment opened")
	r.ReportValue(1, "bytes written", 4096)
	r.ReportValue(1, "target", "file")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, pidPrefix()+"segment opened", lines[0])
	assert.Equal(t, pidPrefix()+"bytes written 4096", lines[1])
	assert.Equal(t, pidPrefix()+"target file", lines[2])
}

func TestSetVerbosityAndOutput(t *testing.T) {
	var first, second bytes.Buffer
	r := New(WithOutput(&first), WithVerbosity(0))

	r.Report(2, "dropped")
	r.SetVerbosity(2)
	r.Report(2, "kept")

	r.SetOutput(&second)
	r.SetOutput(nil) // 忽略
	r.Report(0, "moved")

	assert.Equal(t, pidPrefix()+"kept\n", first.String())
	assert.Equal(t, pidPrefix()+"moved\n", second.String())
	assert.Equal(t, uint(2), r.Verbosity())
}

func TestNilReporter(t *testing.T) {
	var r *Reporter

	assert.NotPanics(t, func() {
		r.Report(0, "x")
		r.ReportValue(0, "x", 1)
		r.SetVerbosity(3)
		r.SetOutput(&bytes.Buffer{})
	})
	assert.False(t, r.Enabled(0))
	assert.Equal(t, uint(0), r.Verbosity())
	assert.NoError(t, r.Flush())
}

type flushRecorder struct {
	bytes.Buffer
	flushed int
	err     error
}

func (f *flushRecorder) Flush() error {
	f.flushed++
	return f.err
}

func TestFlush(t *testing.T) {
	out := &flushRecorder{err: errors.New("flush failed")}
	r := New(WithOutput(out))

	err := r.Flush()
	assert.ErrorIs(t, err, out.err)
	assert.Equal(t, 1, out.flushed)

	// 不支持刷新的目标是空操作
	r.SetOutput(&bytes.Buffer{})
	assert.NoError(t, r.Flush())
}

// TestReport_ConcurrentLinesNotInterleaved 并发报告时每行完整
func TestReport_ConcurrentLinesNotInterleaved(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithOutput(&buf), WithVerbosity(10))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				r.ReportValue(1, "worker", i)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 400)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, pidPrefix()+"worker "), line)
	}
}

func TestGlobal(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	d := Default()
	require.NotNil(t, d)
	assert.Same(t, d, Default())

	var buf bytes.Buffer
	custom := New(WithOutput(&buf))
	SetDefault(custom)
	SetDefault(nil)
	assert.Same(t, custom, Default())

	Report(0, "global")
	ReportValue(1, "global value", true)
	assert.Equal(t, pidPrefix()+"global\n"+pidPrefix()+"global value true\n", buf.String())
}
