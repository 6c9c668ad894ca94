package behaviour

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// Acceptance gossip 消息裁决结果
type Acceptance int

const (
	// Accept 接受并继续转发
	Accept Acceptance = iota
	// Reject 拒绝，不转发并惩罚来源
	Reject
	// Ignore 丢弃，不惩罚来源
	Ignore
)

// String 返回裁决名称
func (a Acceptance) String() string {
	switch a {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "ignore"
	}
}

// EventSource 产生协议事件的组件
type EventSource interface {
	Events() <-chan Event
	Close() error
}

// Swarm 传输层
type Swarm interface {
	EventSource

	// LocalPeer 返回本地 PeerID
	LocalPeer() peer.ID

	// Listen 绑定监听地址
	Listen(addrs ...ma.Multiaddr) error

	// ListenAddrs 返回当前监听地址
	ListenAddrs() []ma.Multiaddr

	// AddExternalAddress 登记一个已确认的外部地址，随 identify 对外通告
	AddExternalAddress(addr ma.Multiaddr)
}

// Gossip gossip 引擎
type Gossip interface {
	EventSource

	// Subscribe 加入 topic
	Subscribe(topic string) error

	// Publish 向 topic 发布消息
	Publish(ctx context.Context, topic string, data []byte) error

	// ReportValidationResult 对引擎之前上报的 GossipMessage 给出裁决
	ReportValidationResult(id string, source peer.ID, acc Acceptance) error
}

// Kademlia DHT 引擎
type Kademlia interface {
	EventSource

	// AddAddress 将地址登记到路由表
	AddAddress(id peer.ID, addr ma.Multiaddr)

	// Bootstrap 触发一轮引导
	Bootstrap(ctx context.Context) error

	// GetClosestPeers 异步查询距离 target 最近的节点，结果以 KademliaQueryResult 返回
	GetClosestPeers(target peer.ID)
}

// Identify identify 引擎
type Identify interface {
	EventSource
}
