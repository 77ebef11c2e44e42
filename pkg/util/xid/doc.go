// Package xid 基于 Sonyflake 生成分段标识。
//
// xfilesink 用它为每个分段文件生成唯一后缀，xredis 用它生成分段键。
// ID 为正的 int64，字符串形式为 base36 编码（约 12 个字符），按生成时间单调递增。
//
// 机器 ID 按以下顺序获取，见 [DefaultMachineID]：
//
//  1. XSINK_MACHINE_ID 环境变量（0-65535）
//  2. POD_NAME 或 HOSTNAME 环境变量的哈希
//  3. os.Hostname() 的哈希
//
// 哈希方式在大规模部署下存在碰撞可能，需要严格唯一时请显式设置 XSINK_MACHINE_ID。
package xid
