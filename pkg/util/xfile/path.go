package xfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// hasDotDotSegment 是否有恰好为 ".." 的路径段，'/' 与 '\' 都视为分隔符
func hasDotDotSegment(path string) bool {
	for seg := range strings.FieldsFuncSeq(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// SanitizePath 对文件路径进行格式检查和规范化
//
// 接受绝对路径；拒绝空路径、空字节、以分隔符结尾的目录路径和相对路径穿越。
// 需要限制在某个目录内时使用 [SafeJoin]。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	// Clean 会去掉尾部分隔符，必须先判断
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrInvalidPath)
	}

	cleaned := filepath.Clean(filename)
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("path traversal in filename: %w", ErrPathTraversal)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("no file name specified: %w", ErrInvalidPath)
	}
	return cleaned, nil
}

// SafeJoin 将相对路径拼接到绝对基准目录
//
// 拒绝绝对路径和 ".." 段，并校验结果以 base 为前缀。
//
//	SafeJoin("/var/spool", "cap-1.bin")     // -> "/var/spool/cap-1.bin"
//	SafeJoin("/var/spool", "../etc/passwd") // -> ErrPathTraversal
func SafeJoin(base, path string) (string, error) {
	if base == "" || path == "" {
		return "", fmt.Errorf("base and path are required: %w", ErrEmptyPath)
	}
	if containsNullByte(base) || containsNullByte(path) {
		return "", fmt.Errorf("base or path contains null byte: %w", ErrNullByte)
	}
	cleanBase := filepath.Clean(base)
	if !filepath.IsAbs(cleanBase) {
		return "", fmt.Errorf("base must be an absolute path: %w", ErrInvalidPath)
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "\\") {
		return "", fmt.Errorf("path must be relative: %w", ErrInvalidPath)
	}
	cleanPath := filepath.Clean(path)
	if hasDotDotSegment(cleanPath) {
		return "", fmt.Errorf("path traversal in path: %w", ErrPathTraversal)
	}

	joined := filepath.Join(cleanBase, cleanPath)
	rel, err := filepath.Rel(cleanBase, joined)
	if err != nil || hasDotDotSegment(rel) {
		return "", ErrPathEscaped
	}
	return joined, nil
}
