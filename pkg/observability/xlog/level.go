package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，与 slog.Level 兼容
type Level slog.Level

// 日志级别常量
//
// LevelTrace 低于 Debug，用于逐块复制这类高频事件。
const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// LevelAuto 级别名，表示跟随报告器冗长级别，见 [ResolveLevel]
const LevelAuto = "auto"

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String 具名级别返回大写名称，其余委托给 slog（如 "INFO+2"）
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return slog.Level(l).String()
}

// MarshalText 实现 encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，失败时不修改 l
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析级别名，大小写不敏感
//
// 接受 trace/debug/info/warn/warning/error，以及 slog 的偏移写法（"info+2"、"debug-4"）。
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	// slog 只认 DEBUG/INFO/WARN/ERROR 及其偏移
	if name != "" {
		var sl slog.Level
		if err := sl.UnmarshalText([]byte(name)); err == nil {
			return Level(sl), nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// VerbosityLevel 报告器冗长级别对应的日志级别
//
// 0 只留 Warn 及以上，1 为 Info，2 为 Debug，3 及以上为 Trace。
func VerbosityLevel(v uint) Level {
	switch v {
	case 0:
		return LevelWarn
	case 1:
		return LevelInfo
	case 2:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// ResolveLevel 同 [ParseLevel]，另外 [LevelAuto] 按 verbosity 推导
func ResolveLevel(s string, verbosity uint) (Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), LevelAuto) {
		return VerbosityLevel(verbosity), nil
	}
	return ParseLevel(s)
}
