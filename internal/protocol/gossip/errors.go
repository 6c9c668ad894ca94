package gossip

import "errors"

var (
	// ErrNotSubscribed 尚未加入该 topic
	ErrNotSubscribed = errors.New("gossip: topic not subscribed")

	// ErrInsufficientPeers 没有订阅该 topic 的对端
	ErrInsufficientPeers = errors.New("gossip: insufficient peers")

	// ErrDuplicate 相同内容的消息最近已发布或已接收
	ErrDuplicate = errors.New("gossip: duplicate message")

	// ErrUnknownMessage 没有等待裁决的对应消息
	ErrUnknownMessage = errors.New("gossip: no pending validation for message")

	// ErrClosed 引擎已关闭
	ErrClosed = errors.New("gossip: engine closed")
)
