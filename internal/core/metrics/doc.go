// Package metrics 节点运行指标
//
// Metrics 由调用方显式创建并以指针共享，所有计数器基于原子操作，
// 可以在多个 goroutine 中并发更新。
//
// 指标有两种导出形式：
//
//   - Snapshot：带 JSON 标签的快照，字段名 peers、messages_broadcasted、
//     messages_received、total_connections
//   - Collector：prometheus Collector，在 /metrics 上以文本格式导出
//
// 节点事件到指标的映射见 Observe。
package metrics
