package xlumber

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xsink/pkg/sink/xsink"
	"github.com/omeyang/xsink/pkg/util/xfile"
)

// 编译时断言
var _ xsink.Sink = (*Sink)(nil)

// Sink 基于 lumberjack 的 Sink
type Sink struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string

	open  bool
	dirty bool // 自上次 Open 以来是否写入过数据

	fileMode    os.FileMode
	onError     func(error)
	modeApplied bool
	maxBytes    int64
	sinceCheck  int64 // 自上次权限检查以来写入的字节数

	// 测试注入点，nil 时使用 os
	statFn  func(string) (os.FileInfo, error)
	chmodFn func(string, os.FileMode) error
}

// New 创建 lumberjack Sink
//
// filename 会被规范化，父目录不存在时以 0750 创建。
func New(filename string, opts ...Option) (*Sink, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := config{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   DefaultCompress,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	return &Sink{
		logger: &lumberjack.Logger{
			Filename:   safePath,
			MaxSize:    cfg.maxSizeMB,
			MaxBackups: cfg.maxBackups,
			MaxAge:     cfg.maxAgeDays,
			Compress:   cfg.compress,
			LocalTime:  cfg.localTime,
		},
		path:     safePath,
		fileMode: cfg.fileMode,
		onError:  cfg.onError,
		maxBytes: int64(cfg.maxSizeMB) << 20,
	}, nil
}

func validate(cfg *config) error {
	if cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.maxSizeMB, maxSizeMB)
	}
	if cfg.maxBackups < 0 || cfg.maxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.maxBackups, maxBackups)
	}
	if cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.maxAgeDays, maxAgeDays)
	}
	if cfg.maxBackups == 0 && cfg.maxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}
	if cfg.fileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed", ErrInvalidFileMode, cfg.fileMode)
	}
	return nil
}

// Open 开始新分段
//
// 首次打开时追加到已有文件；此后每次打开都先 Rotate，把上一分段转为备份。
func (s *Sink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		if err := s.logger.Rotate(); err != nil {
			return err
		}
		s.dirty = false
		s.recheckMode()
	}
	s.open = true
	return nil
}

// IsOpen 是否已打开
func (s *Sink) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// CanWrite 本地文件总是立即可写，返回是否已打开
func (s *Sink) CanWrite(time.Duration) (bool, error) {
	return s.IsOpen(), nil
}

// Write 写入当前文件
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, xsink.ErrNotOpen
	}
	n, err := s.logger.Write(p)
	if n > 0 {
		s.dirty = true
	}
	if err != nil {
		return n, err
	}

	// 权限调整尽力而为，不影响写入结果
	if s.fileMode != 0 {
		s.sinceCheck += int64(n)
		// 累计超过 MaxSize 时 lumberjack 可能已自动轮转出新文件
		if !s.modeApplied || s.sinceCheck >= s.maxBytes {
			s.reportError(s.ensureFileMode())
		}
	}
	return n, nil
}

// Flush lumberjack 直接写文件，无需刷新
func (s *Sink) Flush() error {
	if !s.IsOpen() {
		return xsink.ErrNotOpen
	}
	return nil
}

// Close 关闭当前文件，未打开时为空操作
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	return s.logger.Close()
}

// Cut 立即轮转
func (s *Sink) Cut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return xsink.ErrNotOpen
	}
	if err := s.logger.Rotate(); err != nil {
		return err
	}
	s.dirty = false
	s.recheckMode()
	return nil
}

// Filename 当前分段的文件路径
func (s *Sink) Filename() string {
	return s.path
}

// recheckMode 轮转后新文件为 0600，需要重新调整
func (s *Sink) recheckMode() {
	if s.fileMode == 0 {
		return
	}
	s.modeApplied = false
	s.sinceCheck = 0
	s.reportError(s.ensureFileMode())
}

// ensureFileMode 必须持有 mu
func (s *Sink) ensureFileMode() error {
	stat := s.statFn
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// lumberjack 延迟创建文件
			return nil
		}
		return err
	}

	if info.Mode().Perm() != s.fileMode {
		chmod := s.chmodFn
		if chmod == nil {
			chmod = os.Chmod
		}
		//#nosec G302 -- 权限由调用方配置
		if err := chmod(s.path, s.fileMode); err != nil {
			return err
		}
	}
	s.modeApplied = true
	s.sinceCheck = 0
	return nil
}

// reportError 回调 panic 被 recover 隔离
func (s *Sink) reportError(err error) {
	if err == nil || s.onError == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	s.onError(err)
}
