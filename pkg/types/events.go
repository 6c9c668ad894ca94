package types

import (
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 节点事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// 事件类型常量
const (
	EventTypeInitialized            = "splash.initialized"
	EventTypeNewListenAddress       = "splash.new_listen_address"
	EventTypePeerConnected          = "splash.peer_connected"
	EventTypePeerDisconnected       = "splash.peer_disconnected"
	EventTypeMessageBroadcasted     = "splash.message_broadcasted"
	EventTypeMessageBroadcastFailed = "splash.message_broadcast_failed"
	EventTypeMessageReceived        = "splash.message_received"
)

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              节点生命周期事件
// ============================================================================

// EvtInitialized 节点完成启动，携带本地 PeerID
type EvtInitialized struct {
	BaseEvent
	PeerID peer.ID
}

// NewEvtInitialized 创建 EvtInitialized
func NewEvtInitialized(id peer.ID) *EvtInitialized {
	return &EvtInitialized{BaseEvent: NewBaseEvent(EventTypeInitialized), PeerID: id}
}

// EvtNewListenAddress 新的本地监听地址
type EvtNewListenAddress struct {
	BaseEvent
	Addr ma.Multiaddr
}

// NewEvtNewListenAddress 创建 EvtNewListenAddress
func NewEvtNewListenAddress(addr ma.Multiaddr) *EvtNewListenAddress {
	return &EvtNewListenAddress{BaseEvent: NewBaseEvent(EventTypeNewListenAddress), Addr: addr}
}

// ============================================================================
//                              连接事件
// ============================================================================

// EvtPeerConnected 与对端建立了一条连接
//
// 每条连接各报告一次，同一对端的多条连接会产生多个事件。
type EvtPeerConnected struct {
	BaseEvent
	PeerID peer.ID
}

// NewEvtPeerConnected 创建 EvtPeerConnected
func NewEvtPeerConnected(id peer.ID) *EvtPeerConnected {
	return &EvtPeerConnected{BaseEvent: NewBaseEvent(EventTypePeerConnected), PeerID: id}
}

// EvtPeerDisconnected 与对端的一条连接关闭
type EvtPeerDisconnected struct {
	BaseEvent
	PeerID peer.ID
}

// NewEvtPeerDisconnected 创建 EvtPeerDisconnected
func NewEvtPeerDisconnected(id peer.ID) *EvtPeerDisconnected {
	return &EvtPeerDisconnected{BaseEvent: NewBaseEvent(EventTypePeerDisconnected), PeerID: id}
}

// ============================================================================
//                              消息事件
// ============================================================================

// EvtMessageBroadcasted 本地提交的消息已交给 gossip 发布
type EvtMessageBroadcasted struct {
	BaseEvent
	Message string
}

// NewEvtMessageBroadcasted 创建 EvtMessageBroadcasted
func NewEvtMessageBroadcasted(msg string) *EvtMessageBroadcasted {
	return &EvtMessageBroadcasted{BaseEvent: NewBaseEvent(EventTypeMessageBroadcasted), Message: msg}
}

// EvtMessageBroadcastFailed 本地提交的消息发布失败
type EvtMessageBroadcastFailed struct {
	BaseEvent
	Reason string
	Err    error
}

// NewEvtMessageBroadcastFailed 创建 EvtMessageBroadcastFailed
func NewEvtMessageBroadcastFailed(err error) *EvtMessageBroadcastFailed {
	return &EvtMessageBroadcastFailed{
		BaseEvent: NewBaseEvent(EventTypeMessageBroadcastFailed),
		Reason:    err.Error(),
		Err:       err,
	}
}

// Unwrap 返回底层错误
func (e *EvtMessageBroadcastFailed) Unwrap() error {
	return e.Err
}

// EvtMessageReceived 收到并通过校验的远端消息
type EvtMessageReceived struct {
	BaseEvent
	Message string
}

// NewEvtMessageReceived 创建 EvtMessageReceived
func NewEvtMessageReceived(msg string) *EvtMessageReceived {
	return &EvtMessageReceived{BaseEvent: NewBaseEvent(EventTypeMessageReceived), Message: msg}
}
