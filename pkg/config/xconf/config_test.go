package xconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeConfig struct {
	Sink      string        `koanf:"sink"`
	Limit     int64         `koanf:"limit"`
	Period    time.Duration `koanf:"period"`
	Verbosity uint          `koanf:"verbosity"`
	File      struct {
		Dir    string `koanf:"dir"`
		Prefix string `koanf:"prefix"`
	} `koanf:"file"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"YAML", "xsink.yaml", "sink: file\nlimit: 1024\nperiod: 60s\nverbosity: 2\nfile:\n  dir: /tmp/seg\n  prefix: cap\n"},
		{"YML扩展名", "xsink.yml", "sink: file\nlimit: 1024\nperiod: 60s\nverbosity: 2\nfile:\n  dir: /tmp/seg\n  prefix: cap\n"},
		{"JSON", "xsink.json", `{"sink":"file","limit":1024,"period":"60s","verbosity":2,"file":{"dir":"/tmp/seg","prefix":"cap"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			var pc pipeConfig
			require.NoError(t, cfg.Unmarshal("", &pc))
			assert.Equal(t, "file", pc.Sink)
			assert.EqualValues(t, 1024, pc.Limit)
			assert.Equal(t, time.Minute, pc.Period)
			assert.EqualValues(t, 2, pc.Verbosity)
			assert.Equal(t, "/tmp/seg", pc.File.Dir)
			assert.Equal(t, "cap", pc.File.Prefix)
			assert.Equal(t, "cap", cfg.Client().String("file.prefix"))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = New("config.toml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrLoadFailed)

	_, err = New(writeFile(t, "bad.json", "{not json"))
	require.ErrorIs(t, err, ErrParseFailed)
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte("redis:\n  addr: localhost:6379\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Client().String("redis.addr"))
	assert.Empty(t, cfg.Path())
	assert.Equal(t, FormatYAML, cfg.Format())
	require.ErrorIs(t, cfg.Reload(), ErrNotReloadable)

	empty, err := NewFromBytes(nil, FormatJSON)
	require.NoError(t, err)
	var pc pipeConfig
	require.NoError(t, empty.Unmarshal("", &pc))
	assert.Zero(t, pc.Limit)

	_, err = NewFromBytes(nil, Format("toml"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnmarshal_Error(t *testing.T) {
	cfg, err := NewFromBytes([]byte(`{"limit":"many"}`), FormatJSON)
	require.NoError(t, err)

	var pc pipeConfig
	require.ErrorIs(t, cfg.Unmarshal("", &pc), ErrUnmarshalFailed)
}

func TestReload_KeepsOldOnFailure(t *testing.T) {
	path := writeFile(t, "xsink.yaml", "limit: 10\n")
	cfg, err := New(path)
	require.NoError(t, err)

	old := cfg.Client()
	require.NoError(t, os.WriteFile(path, []byte("limit: 20\n"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.EqualValues(t, 20, cfg.Client().Int64("limit"))
	assert.EqualValues(t, 10, old.Int64("limit"), "旧快照保持不变")

	require.NoError(t, os.WriteFile(path, []byte("limit: [unclosed\n"), 0o600))
	require.ErrorIs(t, cfg.Reload(), ErrParseFailed)
	assert.EqualValues(t, 20, cfg.Client().Int64("limit"))
}

func TestOptions(t *testing.T) {
	cfg, err := NewFromBytes([]byte(`{"log":{"level":"debug"}}`), FormatJSON, WithDelim("/"), WithTag("json"), nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Client().String("log/level"))

	var out struct {
		Level string `json:"level"`
	}
	require.NoError(t, cfg.Unmarshal("log", &out))
	assert.Equal(t, "debug", out.Level)
}
