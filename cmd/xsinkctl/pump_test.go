package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xsink/pkg/observability/xlog"
	"github.com/omeyang/xsink/pkg/observability/xreport"
	"github.com/omeyang/xsink/pkg/sink/xfilesink"
	"github.com/omeyang/xsink/pkg/sink/xloop"
	"github.com/omeyang/xsink/pkg/sink/xsink/xsinkmock"
)

func newTestLogger(t *testing.T) xlog.LoggerWithLevel {
	t.Helper()
	logger, cleanup, err := xlog.New().SetOutput(io.Discard).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return logger
}

func newFileLoop(t *testing.T, limit int64) (*xloop.Loop, *xfilesink.Sink) {
	t.Helper()
	fs, err := xfilesink.New(t.TempDir(), "pump")
	require.NoError(t, err)
	loop, err := xloop.New(fs, limit, xloop.WithReporter(xreport.New(xreport.WithOutput(io.Discard))))
	require.NoError(t, err)
	require.NoError(t, loop.Open())
	return loop, fs
}

func TestPump_CopiesUntilEOF(t *testing.T) {
	loop, fs := newFileLoop(t, 100)
	p, err := newPump(loop, strings.NewReader(strings.Repeat("x", 250)), 50, newTestLogger(t))
	require.NoError(t, err)

	require.NoError(t, p.Run(context.Background()))

	copied, rotations, _ := p.Stats()
	assert.EqualValues(t, 250, copied)
	assert.EqualValues(t, 2, rotations)
	assert.False(t, loop.IsOpen(), "结束后释放")
	assert.Len(t, fs.Segments(), 3)
}

// blockingReader 先返回 data，之后阻塞直到 release 关闭
type blockingReader struct {
	data    []byte
	release chan struct{}
}

func (r *blockingReader) Read(p []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(p, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	<-r.release
	return 0, io.EOF
}

func TestPump_CutRequests(t *testing.T) {
	loop, fs := newFileLoop(t, 1<<20)
	in := &blockingReader{data: []byte("before-cut"), release: make(chan struct{})}
	p, err := newPump(loop, in, 64, newTestLogger(t))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		copied, _ := p.progress()
		return copied == int64(len("before-cut"))
	}, time.Second, time.Millisecond)

	require.NoError(t, p.cutOnSignal(context.Background(), syscall.SIGUSR1))
	require.Eventually(t, func() bool {
		_, cuts := p.progress()
		return cuts == 1
	}, time.Second, time.Millisecond)

	close(in.release)
	require.NoError(t, <-done)

	segments := fs.Segments()
	require.Len(t, segments, 2)
	data, err := os.ReadFile(segments[0])
	require.NoError(t, err)
	assert.Equal(t, "before-cut", string(data))

	_, _, cuts := p.Stats()
	assert.EqualValues(t, 1, cuts)
}

func TestPump_RequestCutCoalesces(t *testing.T) {
	loop, _ := newFileLoop(t, 100)
	p, err := newPump(loop, strings.NewReader(""), 10, newTestLogger(t))
	require.NoError(t, err)

	p.RequestCut()
	p.RequestCut()
	p.RequestCut()
	assert.Len(t, p.cuts, 1)
}

func TestPump_ContextCancel(t *testing.T) {
	loop, fs := newFileLoop(t, 1<<20)
	in := &blockingReader{release: make(chan struct{})}
	defer close(in.release)

	p, err := newPump(loop, in, 64, newTestLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))
	assert.False(t, loop.IsOpen())
	assert.Len(t, fs.Segments(), 1)
}

// gateSink 第一次 Write 阻塞到 gate 关闭
type gateSink struct {
	mu      sync.Mutex
	open    bool
	data    bytes.Buffer
	writes  int
	entered chan struct{}
	gate    chan struct{}
}

func (s *gateSink) Open() error                          { s.open = true; return nil }
func (s *gateSink) IsOpen() bool                         { return s.open }
func (s *gateSink) CanWrite(time.Duration) (bool, error) { return s.open, nil }
func (s *gateSink) Flush() error                         { return nil }
func (s *gateSink) Close() error                         { s.open = false; return nil }
func (s *gateSink) Cut() error                           { return nil }

func (s *gateSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.writes++
	first := s.writes == 1
	s.mu.Unlock()
	if first {
		close(s.entered)
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Write(p)
}

// chunkReader 依次返回 chunks，每次返回后通知 served，用尽后阻塞到 release 关闭
type chunkReader struct {
	chunks  []string
	served  chan int
	release chan struct{}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) > 0 {
		n := copy(p, r.chunks[0])
		r.chunks = r.chunks[1:]
		r.served <- len(r.chunks)
		return n, nil
	}
	<-r.release
	return 0, io.EOF
}

func TestPump_CancelWritesChunkInHand(t *testing.T) {
	target := &gateSink{entered: make(chan struct{}), gate: make(chan struct{})}
	loop, err := xloop.New(target, 1<<20, xloop.WithReporter(xreport.New(xreport.WithOutput(io.Discard))))
	require.NoError(t, err)
	require.NoError(t, loop.Open())

	in := &chunkReader{chunks: []string{"first", "second"}, served: make(chan int, 2), release: make(chan struct{})}
	defer close(in.release)

	p, err := newPump(loop, in, 64, newTestLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// "first" 卡在目标写入中，"second" 已被读出并等待交付
	<-target.entered
	<-in.served
	<-in.served
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(target.gate)
	require.NoError(t, <-done)

	copied, _, _ := p.Stats()
	assert.EqualValues(t, len("firstsecond"), copied)
	assert.Equal(t, "firstsecond", target.data.String())
	assert.False(t, target.IsOpen())
}

func TestPump_WriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := xsinkmock.NewMockSink(ctrl)
	diskFull := errors.New("disk full")

	target.EXPECT().IsOpen().Return(true).AnyTimes()
	target.EXPECT().Write(gomock.Any()).Return(0, diskFull)
	target.EXPECT().Flush().Return(nil)
	target.EXPECT().Close().Return(nil)

	loop, err := xloop.New(target, 100, xloop.WithReporter(xreport.New(xreport.WithOutput(io.Discard))))
	require.NoError(t, err)

	p, err := newPump(loop, strings.NewReader("payload"), 64, newTestLogger(t))
	require.NoError(t, err)

	err = p.Run(context.Background())
	require.ErrorIs(t, err, diskFull)
}
