package xfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"绝对路径", "/var/log/app.log", "/var/log/app.log", nil},
		{"冗余分隔符", "/var//log/./app.log", "/var/log/app.log", nil},
		{"点开头的文件名", "logs/..config", "logs/..config", nil},
		{"空路径", "", "", ErrEmptyPath},
		{"空字节", "a\x00b", "", ErrNullByte},
		{"目录路径", "/var/log/", "", ErrInvalidPath},
		{"反斜杠结尾", "logs\\", "", ErrInvalidPath},
		{"相对穿越", "../etc/passwd", "", ErrPathTraversal},
		{"根路径", "/", "", ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeJoin(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr error
	}{
		{"普通文件", "/var/spool", "cap-1.bin", "/var/spool/cap-1.bin", nil},
		{"子目录", "/var/spool", "a/b.bin", "/var/spool/a/b.bin", nil},
		{"点开头", "/var/spool", "..cap", "/var/spool/..cap", nil},
		{"空 base", "", "a", "", ErrEmptyPath},
		{"空 path", "/var", "", "", ErrEmptyPath},
		{"相对 base", "spool", "a", "", ErrInvalidPath},
		{"绝对 path", "/var/spool", "/etc/passwd", "", ErrInvalidPath},
		{"Windows 根路径", "/var/spool", "\\etc", "", ErrInvalidPath},
		{"穿越", "/var/spool", "../etc/passwd", "", ErrPathTraversal},
		{"空字节", "/var/spool", "a\x00", "", ErrNullByte},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(tt.base, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a", "b", "seg.bin")

	require.NoError(t, EnsureDir(file))
	info, err := os.Stat(filepath.Dir(file))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureDir(file), "已存在时不报错")
	assert.NoError(t, EnsureDir("seg.bin"), "当前目录无需创建")
}

func TestEnsureDirWithPerm_Invalid(t *testing.T) {
	assert.ErrorIs(t, EnsureDirWithPerm("", 0o750), ErrEmptyPath)
	assert.ErrorIs(t, EnsureDirWithPerm("a\x00/b", 0o750), ErrNullByte)
	assert.ErrorIs(t, EnsureDirWithPerm(filepath.Join(t.TempDir(), "x", "f"), 0o640), ErrInvalidPerm)
}
