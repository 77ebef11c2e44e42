// Package xconf 基于 koanf 的配置加载与热重载。
//
// 支持 YAML（.yaml/.yml）与 JSON（.json）。xconf 只负责加载、反序列化与重载，
// 默认值与命令行覆盖由调用方（如 xsinkctl）处理。
//
// # 并发安全
//
// Reload 串行执行，解析成功后原子替换底层 koanf 实例；解析失败时保留旧配置。
// Client 返回当前快照，Reload 后旧指针仍可用但数据已过期，不要长期缓存。
//
// # 配置监视
//
// [Watch] 监视配置文件所在目录（编辑器常以 rename 方式原子写入），防抖后调用 Reload
// 并通知回调。回调串行执行；Stop 返回后不会再开始新的回调，在回调中调用 Stop 不会死锁。
package xconf
