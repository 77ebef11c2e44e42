// Package xproc 提供当前进程的标识信息。
//
// xreport 用进程号作为每行事件的前缀，xsinkctl 用进程名作为日志来源。
package xproc

import (
	"os"
	"path/filepath"
)

// osExecutable 测试注入点
var osExecutable = os.Executable

// ProcessID 返回当前进程 ID
func ProcessID() int {
	return os.Getpid()
}

// ProcessName 返回当前进程名称（不含路径）
//
// 优先取可执行文件路径，失败时回退到 os.Args[0]；都不可用时返回空字符串。
func ProcessName() string {
	if exe, err := osExecutable(); err == nil && exe != "" {
		if name := baseName(exe); name != "" {
			return name
		}
	}
	if len(os.Args) == 0 || os.Args[0] == "" {
		return ""
	}
	return baseName(os.Args[0])
}

// baseName 对 "."、".." 和根路径返回空字符串
func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
