package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xsink/pkg/observability/xlog"
)

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Cleanup(xlog.ResetDefault)

	var out, errOut bytes.Buffer
	code = run(context.Background(), append([]string{"xsinkctl"}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func readSegments(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var contents []string
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		contents = append(contents, string(data))
	}
	return contents
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "", "version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "xsinkctl "+Version)
}

func TestRun_PipeFileSink(t *testing.T) {
	dir := t.TempDir()
	input := strings.Repeat("a", 300)

	code, out, stderr := runCLI(t, input,
		"pipe", "--dir", dir, "--prefix", "cap", "--limit", "120", "--chunk", "60",
		"--verbosity", "2", "--log-level", "debug",
	)
	require.Equal(t, exitOK, code, stderr)

	segments := readSegments(t, dir)
	total := 0
	for _, s := range segments {
		total += len(s)
	}
	assert.Equal(t, len(input), total)
	assert.Len(t, segments, 3, "300 字节以 60 字节块写入、每 120 字节轮转")
	assert.Equal(t, 2, strings.Count(out, "xloop: segment rotated after bytes 120"))
	assert.Contains(t, stderr, "pipe finished")
}

func TestRun_PipeEmptyInput(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCLI(t, "", "pipe", "--dir", dir)
	require.Equal(t, exitOK, code, stderr)

	segments := readSegments(t, dir)
	require.Len(t, segments, 1, "首次打开即创建分段")
	assert.Empty(t, segments[0])
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"未知参数", []string{"pipe", "--bogus"}},
		{"非法 limit", []string{"pipe", "--limit", "0"}},
		{"非整秒 period", []string{"pipe", "--period", "1500ms"}},
		{"未知 sink", []string{"pipe", "--sink", "kafka"}},
		{"非法 cron", []string{"pipe", "--cut-cron", "every minute"}},
		{"非法日志级别", []string{"pipe", "--log-level", "loud"}},
		{"配置文件不存在", []string{"pipe", "--config", "/nonexistent/xsink.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, "", tt.args...)
			assert.Equal(t, exitUsage, code)
		})
	}
}

func TestRun_OpenFailure(t *testing.T) {
	// 目录位置被普通文件占用，无法创建分段目录
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	code, _, stderr := runCLI(t, "data", "pipe", "--dir", filepath.Join(blocker, "sub"), "--open-attempts", "1")
	assert.Equal(t, exitRuntime, code)
	assert.Contains(t, stderr, "open sink")
}
