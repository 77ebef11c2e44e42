package xlog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/omeyang/xsink/pkg/observability/xlog"
	"github.com/omeyang/xsink/pkg/sink/xlumber"
	"github.com/omeyang/xsink/pkg/sink/xsink"
)

// bufferSink 内存 Sink，记录生命周期调用
type bufferSink struct {
	open    bool
	data    strings.Builder
	opens   int
	flushes int
	closes  int
	openErr error
}

func (s *bufferSink) Open() error {
	if s.openErr != nil {
		return s.openErr
	}
	s.opens++
	s.open = true
	return nil
}
func (s *bufferSink) IsOpen() bool                        { return s.open }
func (s *bufferSink) CanWrite(time.Duration) (bool, error) { return s.open, nil }
func (s *bufferSink) Write(p []byte) (int, error)         { return s.data.Write(p) }
func (s *bufferSink) Flush() error                        { s.flushes++; return nil }
func (s *bufferSink) Close() error                        { s.closes++; s.open = false; return nil }
func (s *bufferSink) Cut() error                          { return nil }

var _ xsink.Sink = (*bufferSink)(nil)

func TestBuilder_SetSink(t *testing.T) {
	s := &bufferSink{}
	logger, cleanup, err := xlog.New().SetSink(s).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !s.open || s.opens != 1 {
		t.Fatalf("Build() should open the sink, opens=%d", s.opens)
	}

	logger.Info(context.Background(), "to sink")
	if !strings.Contains(s.data.String(), "to sink") {
		t.Errorf("sink missing message: %q", s.data.String())
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("second cleanup() error: %v", err)
	}
	if s.closes != 1 || s.flushes != 1 {
		t.Errorf("closes=%d flushes=%d, want 1/1", s.closes, s.flushes)
	}
}

func TestBuilder_SetSinkOpenError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := xlog.New().SetSink(&bufferSink{openErr: boom}).Build()
	if !errors.Is(err, boom) {
		t.Errorf("Build() error = %v, want %v", err, boom)
	}
}

func TestBuilder_SetOutputOverridesSink(t *testing.T) {
	s := &bufferSink{}
	var out strings.Builder
	logger, cleanup, err := xlog.New().SetSink(s).SetOutput(&out).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	logger.Info(context.Background(), "to writer")
	if s.opens != 0 {
		t.Error("sink replaced by SetOutput should not be opened")
	}
	if !strings.Contains(out.String(), "to writer") {
		t.Errorf("writer missing message: %q", out.String())
	}
}

func TestBuilder_SetRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, cleanup, err := xlog.New().
		SetRotation(path, xlumber.WithMaxSize(1), xlumber.WithCompress(false)).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	logger.Info(context.Background(), "rotated file")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "rotated file") {
		t.Errorf("log file missing message: %q", data)
	}
}

func TestBuilder_SetRotationInvalid(t *testing.T) {
	_, _, err := xlog.New().SetRotation("").Build()
	if !errors.Is(err, xlumber.ErrEmptyFilename) {
		t.Errorf("Build() error = %v, want %v", err, xlumber.ErrEmptyFilename)
	}
}
