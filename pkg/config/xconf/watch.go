package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 变更回调，err 为重载或监视错误
type WatchCallback func(cfg *Config, err error)

// Watcher 配置文件监视器
type Watcher struct {
	cfg      *Config
	fs       *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	done    chan struct{}
	once    sync.Once

	cbMu sync.Mutex // 串行化回调
}

// Watch 创建监视器，需调用 Start/StartAsync/Run 开始监视
//
//	w, err := xconf.Watch(cfg, func(c *xconf.Config, err error) {
//		if err != nil {
//			return
//		}
//		logger.SetLevel(...)
//	})
//	w.StartAsync()
//	defer w.Stop()
func Watch(cfg *Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.path == "" {
		return nil, ErrNotReloadable
	}

	o := watchOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.path)
	if err := fs.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fs.Close())
	}

	return &Watcher{
		cfg:      cfg,
		fs:       fs,
		callback: callback,
		debounce: o.debounce,
		done:     make(chan struct{}),
	}, nil
}

// Start 阻塞监视直到 Stop
func (w *Watcher) Start() {
	w.loop()
}

// StartAsync 在后台 goroutine 中监视
func (w *Watcher) StartAsync() {
	go w.loop()
}

// Run 阻塞监视直到 ctx 结束，随后停止监视器
//
// 适合作为 xrun 服务运行。
func (w *Watcher) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = w.Stop() //nolint:errcheck // Run 返回后 Stop 的错误无处上报
		case <-w.done:
		}
	}()
	w.loop()
	return nil
}

// Stop 停止监视，可重复调用
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		w.mu.Lock()
		w.stopped = true
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()

		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	filename := filepath.Base(w.cfg.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.notify(fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// handleEvent Write/Create/Rename 都可能表示文件已更新
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.notify(w.cfg.Reload())
	})
}

func (w *Watcher) notify(err error) {
	if w.callback == nil {
		return
	}
	w.cbMu.Lock()
	defer w.cbMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	w.callback(w.cfg, err)
}
