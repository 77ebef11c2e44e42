// Package xfilesink 提供每个分段一个文件的 Sink 实现。
//
// 每次 Open 在目录下创建一个新文件：
//
//	<dir>/<prefix>-<UTC yyyymmddThhmmss>-<id><ext>
//
// id 由 xid 生成，保证同一秒内多次打开也不会重名；文件以 O_EXCL 创建，不会覆盖已有文件。
// 写入经过 bufio 缓冲，Flush 刷新缓冲并 fsync。
//
// 与 xloop 组合即得到按大小或整点切分的落盘器：
//
//	fs, _ := xfilesink.New("/var/spool/capture", "cap", xfilesink.WithExt(".pcap"))
//	loop, _ := xloop.New(fs, 256<<20, xloop.WithPeriod(time.Hour))
//
// Sink 不是并发安全的，同一实例只能有一个写入者。
package xfilesink
