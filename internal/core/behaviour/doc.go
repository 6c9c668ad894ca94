// Package behaviour 组合 gossip、Kademlia 与 identify 三个协议引擎
//
// Behaviour 是单一门面：
//   - 把各引擎的事件合并成一个事件源（Events），每个事件都带有来源标签
//   - 把命令路由到拥有该能力的引擎（Publish 到 gossip，AddAddress 到 Kademlia……）
//
// 事件是显式的带标签联合：Event 接口加若干具体类型，
// 使用方通过 type switch 处理，不认识的事件直接忽略。
package behaviour
