// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件路径处理，目录创建与路径遍历防护
//   - xid: 基于 sonyflake 的分段 ID 生成
//   - xproc: 进程信息查询，PID 和进程名称
package util
