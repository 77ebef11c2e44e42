// Package xfile 提供分段文件落盘所需的路径与目录工具。
//
//   - SanitizePath: 格式净化（空路径、空字节、".." 段、目录路径），接受绝对路径
//   - SafeJoin: 把相对名拼接到绝对基准目录下，结果保证仍在基准目录内
//   - EnsureDir: 确保文件的父目录存在
//
// 路径穿越按路径段精确判断，"..config" 这类以点开头的合法文件名不会被误判。
// 本包只校验路径字符串，不解析符号链接，检查与实际打开之间存在 TOCTOU 窗口。
package xfile
