// Package ws WebSocket 消息转发
//
// Hub 接受 WebSocket 客户端并向全部客户端推送文本帧。
// Transmit 缓冲收到的消息，每 300ms 依次推送一批，每条消息一帧：
//
//	{"offer": "offer1...", "ts": "2024-01-02T15:04:05Z"}
//
// 客户端发来的数据会被丢弃；发送队列积压的客户端会被断开。
package ws
