package xfilesink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/omeyang/xsink/pkg/sink/xsink"
	"github.com/omeyang/xsink/pkg/util/xfile"
	"github.com/omeyang/xsink/pkg/util/xid"
)

// 编译时断言
var _ xsink.Sink = (*Sink)(nil)

// timeLayout 文件名中的时间戳格式
const timeLayout = "20060102T150405"

// Sink 每个分段一个文件的 Sink
type Sink struct {
	dir    string
	prefix string
	opts   options

	file    *os.File
	w       *bufio.Writer
	current string

	segments []string
}

// New 创建文件 Sink
//
// dir 会被转换为绝对路径，不存在时在首次 Open 时创建。
func New(dir, prefix string, opts ...Option) (*Sink, error) {
	if dir == "" {
		return nil, ErrEmptyDir
	}
	if prefix == "" || strings.ContainsAny(prefix, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}

	o := options{
		ext:        DefaultExt,
		fileMode:   DefaultFileMode,
		bufferSize: DefaultBufferSize,
		clock:      time.Now,
		newID:      xid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if strings.ContainsAny(o.ext, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExt, o.ext)
	}
	if o.bufferSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBufferSize, o.bufferSize)
	}
	if o.fileMode == 0 || o.fileMode&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("%w: got %04o", ErrInvalidFileMode, o.fileMode)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("xfilesink: resolve dir: %w", err)
	}

	return &Sink{dir: abs, prefix: prefix, opts: o}, nil
}

// Open 创建新的分段文件
//
// 已打开时先关闭当前文件，等价于 [Sink.Cut]。
func (s *Sink) Open() error {
	if s.IsOpen() {
		if err := s.Close(); err != nil {
			return err
		}
	}

	id, err := s.opts.newID()
	if err != nil {
		return fmt.Errorf("xfilesink: generate segment id: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s%s", s.prefix, s.opts.clock().UTC().Format(timeLayout), id, s.opts.ext)
	path, err := xfile.SafeJoin(s.dir, name)
	if err != nil {
		return err
	}
	if err := xfile.EnsureDir(path); err != nil {
		return err
	}

	//#nosec G304 -- 路径经 SafeJoin 限制在 dir 内
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.opts.fileMode)
	if err != nil {
		return err
	}

	s.file = f
	s.current = path
	if s.w == nil {
		s.w = bufio.NewWriterSize(f, s.opts.bufferSize)
	} else {
		s.w.Reset(f)
	}
	return nil
}

// IsOpen 是否有打开的分段文件
func (s *Sink) IsOpen() bool {
	return s.file != nil
}

// CanWrite 本地文件总是立即可写，返回是否已打开
func (s *Sink) CanWrite(time.Duration) (bool, error) {
	return s.IsOpen(), nil
}

// Write 写入缓冲区
func (s *Sink) Write(p []byte) (int, error) {
	if !s.IsOpen() {
		return 0, xsink.ErrNotOpen
	}
	return s.w.Write(p)
}

// Flush 刷新缓冲区并 fsync
func (s *Sink) Flush() error {
	if !s.IsOpen() {
		return xsink.ErrNotOpen
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close 刷新并关闭当前文件，未打开时为空操作
//
// 无论刷新是否成功，文件都会被关闭并记入 [Sink.Segments]。
func (s *Sink) Close() error {
	if !s.IsOpen() {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.file.Close()

	s.segments = append(s.segments, s.current)
	s.file = nil
	s.current = ""
	return errors.Join(flushErr, closeErr)
}

// Cut 结束当前文件并开始新文件
func (s *Sink) Cut() error {
	if !s.IsOpen() {
		return xsink.ErrNotOpen
	}
	return s.Open()
}

// Current 当前分段文件路径，未打开时为空
func (s *Sink) Current() string {
	return s.current
}

// Segments 已关闭的分段文件路径，按关闭顺序
func (s *Sink) Segments() []string {
	return slices.Clone(s.segments)
}

// Dir 分段文件所在的绝对目录
func (s *Sink) Dir() string {
	return s.dir
}
