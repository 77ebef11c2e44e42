package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/omeyang/xsink/pkg/observability/xlog"
	"github.com/omeyang/xsink/pkg/sink/xloop"
	"github.com/omeyang/xsink/pkg/sink/xsink"
)

// pump 把输入复制到 Loop
//
// Loop 不是并发安全的：所有对它的调用（写入、切分、释放）都发生在 Run 所在的 goroutine 上，
// 其他 goroutine 只能通过 RequestCut 投递请求。
type pump struct {
	loop   *xloop.Loop
	w      *xsink.Writer
	in     io.Reader
	chunk  int
	cuts   chan struct{}
	logger xlog.Logger

	// 统计只由 Run 所在 goroutine 写入
	copied atomic.Int64
	cutN   atomic.Int64
}

func newPump(loop *xloop.Loop, in io.Reader, chunk int, logger xlog.Logger) (*pump, error) {
	w, err := xsink.NewWriter(loop)
	if err != nil {
		return nil, err
	}
	return &pump{
		loop:   loop,
		w:      w,
		in:     in,
		chunk:  chunk,
		cuts:   make(chan struct{}, 1),
		logger: logger,
	}, nil
}

// RequestCut 请求一次手动切分，未处理的请求会合并
func (p *pump) RequestCut() {
	select {
	case p.cuts <- struct{}{}:
	default:
	}
}

// cutOnSignal 适配 xrun.OnSignal
func (p *pump) cutOnSignal(ctx context.Context, sig os.Signal) error {
	p.logger.Debug(ctx, "cut requested", xlog.Operation("cut"), slog.String("signal", sig.String()))
	p.RequestCut()
	return nil
}

// Run 复制直到输入结束或 ctx 取消，返回前刷新并释放当前分段
//
// 取消时读协程已取出但尚未交付的一块仍会写入；取消之后才完成的读取被丢弃并记录日志。
func (p *pump) Run(ctx context.Context) error {
	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go p.read(chunks, readErr, stop)

	for {
		select {
		case <-ctx.Done():
			return p.finish(ctx, p.drain(chunks))

		case <-p.cuts:
			p.cut(ctx)

		case b, ok := <-chunks:
			if !ok {
				return p.finish(ctx, <-readErr)
			}
			if err := p.write(b); err != nil {
				return p.finish(ctx, err)
			}
		}
	}
}

func (p *pump) write(b []byte) error {
	n, err := p.w.Write(b)
	p.copied.Add(int64(n))
	p.logger.Log(context.Background(), xlog.LevelTrace, "chunk copied", xlog.Bytes(int64(n)))
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// drain 取走读协程手中至多一块数据，读协程阻塞在交付上时才会成功
func (p *pump) drain(chunks <-chan []byte) error {
	select {
	case b, ok := <-chunks:
		if ok {
			return p.write(b)
		}
	default:
	}
	return nil
}

// read 读取输入并逐块投递，结束时关闭 chunks
//
// 只有 Run 返回（stop 关闭）后才放弃交付，保证 drain 能拿到手中的数据。
func (p *pump) read(chunks chan<- []byte, readErr chan<- error, stop <-chan struct{}) {
	defer close(chunks)
	for {
		buf := make([]byte, p.chunk)
		n, err := p.in.Read(buf)
		if n > 0 {
			select {
			case chunks <- buf[:n]:
			case <-stop:
				p.logger.Warn(context.Background(), "input dropped after shutdown",
					xlog.Operation("pipe"), xlog.Bytes(int64(n)))
				readErr <- nil
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			} else {
				err = fmt.Errorf("read input: %w", err)
			}
			readErr <- err
			return
		}
	}
}

func (p *pump) cut(ctx context.Context) {
	if !p.loop.IsOpen() {
		return
	}
	if err := p.loop.Cut(); err != nil {
		p.logger.Warn(ctx, "cut failed", xlog.Operation("cut"), xlog.Err(err))
		return
	}
	p.cutN.Add(1)
}

// finish 刷新并释放，释放失败只通过 Loop 的回调上报
func (p *pump) finish(ctx context.Context, cause error) error {
	var flushErr error
	if p.loop.IsOpen() {
		if err := p.w.Flush(); err != nil {
			flushErr = fmt.Errorf("flush: %w", err)
		}
	}
	p.loop.Release()

	p.logger.Info(ctx, "pipe finished",
		xlog.Bytes(p.copied.Load()),
		xlog.Operation("pipe"),
	)
	return errors.Join(cause, flushErr)
}

// Stats 已复制字节数、由写入触发的轮转次数、成功的手动切分次数
//
// rotations 读取 Loop 的非同步状态，只能在 Run 返回后调用。
func (p *pump) Stats() (copied int64, rotations uint64, cuts int64) {
	return p.copied.Load(), p.loop.Rotations(), p.cutN.Load()
}

// progress 可在 Run 运行期间并发调用
func (p *pump) progress() (copied, cuts int64) {
	return p.copied.Load(), p.cutN.Load()
}
