// Package message 实现广播消息的校验管道与内容寻址消息 ID
//
// 校验同时作用于两个方向：
//   - 出站：提交进入发送队列之前（超限直接同步失败，不入队）
//   - 入站：gossip 收到消息后，决定接受或拒绝转发
//
// 消息 ID 只由负载字节决定，内容相同的两条消息被视为同一条，
// gossip 层据此去重。
package message
