// Package gossip 基于 go-libp2p-pubsub 的 GossipSub 引擎
//
// 与默认用法的区别在于显式的两阶段接受：
//
//  1. 远端消息到达时，主题验证器把消息作为 behaviour.GossipMessage 上报
//  2. 验证器阻塞等待 ReportValidationResult 给出 Accept/Reject/Ignore
//  3. 只有 Accept 的消息才会继续转发给 mesh 中的其他节点
//
// 本地发布的消息在入队前已经校验过，验证器对其直接放行。
// 消息以一个与节点身份无关的临时密钥签名。
package gossip
