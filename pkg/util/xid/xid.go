package xid

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sony/sonyflake/v2"
)

type options struct {
	machineID func() (uint16, error)
}

// Option 生成器配置选项
type Option func(*options)

// WithMachineID 设置机器 ID 来源，默认为 [DefaultMachineID]
func WithMachineID(fn func() (uint16, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.machineID = fn
		}
	}
}

// Generator 分段 ID 生成器，并发安全
type Generator struct {
	next func() (int64, error)
}

// NewGenerator 创建生成器
func NewGenerator(opts ...Option) (*Generator, error) {
	o := options{machineID: DefaultMachineID}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	sf, err := sonyflake.New(sonyflake.Settings{
		MachineID: func() (int, error) {
			id, err := o.machineID()
			return int(id), err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Generator{next: sf.NextID}, nil
}

// New 生成新的 ID
func (g *Generator) New() (int64, error) {
	if g == nil || g.next == nil {
		return 0, ErrNilGenerator
	}
	id, err := g.next()
	if err != nil {
		if errors.Is(err, sonyflake.ErrOverTimeLimit) {
			return 0, fmt.Errorf("%w: %w", ErrOverTimeLimit, err)
		}
		return 0, err
	}
	return id, nil
}

// NewString 生成新的 ID（base36 字符串）
func (g *Generator) NewString() (string, error) {
	id, err := g.New()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 36), nil
}

// Parse 解析 base36 字符串形式的 ID
func Parse(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return id, nil
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
	defaultErr  error
)

// NewString 使用默认生成器生成 ID
//
// 默认生成器在首次调用时以 [DefaultMachineID] 创建，失败结果会被缓存。
func NewString() (string, error) {
	defaultOnce.Do(func() {
		defaultGen, defaultErr = NewGenerator()
	})
	if defaultErr != nil {
		return "", defaultErr
	}
	return defaultGen.NewString()
}
