package behaviour

import (
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
)

// Origin 事件来源
type Origin int

const (
	// OriginSwarm 传输层（连接、监听地址）
	OriginSwarm Origin = iota
	// OriginGossip gossip 引擎
	OriginGossip
	// OriginKademlia Kademlia 引擎
	OriginKademlia
	// OriginIdentify identify 引擎
	OriginIdentify
)

// String 返回来源名称
func (o Origin) String() string {
	switch o {
	case OriginSwarm:
		return "swarm"
	case OriginGossip:
		return "gossip"
	case OriginKademlia:
		return "kademlia"
	case OriginIdentify:
		return "identify"
	default:
		return "unknown"
	}
}

// Event 协议事件
type Event interface {
	Origin() Origin
}

// ============================================================================
//                              传输层事件
// ============================================================================

// ConnectionEstablished 建立了一条新连接
type ConnectionEstablished struct {
	Peer       peer.ID
	RemoteAddr ma.Multiaddr
}

// Origin 实现 Event
func (ConnectionEstablished) Origin() Origin { return OriginSwarm }

// ConnectionClosed 一条连接已关闭
type ConnectionClosed struct {
	Peer       peer.ID
	RemoteAddr ma.Multiaddr
}

// Origin 实现 Event
func (ConnectionClosed) Origin() Origin { return OriginSwarm }

// NewListenAddr 新的本地监听地址
type NewListenAddr struct {
	Addr ma.Multiaddr
}

// Origin 实现 Event
func (NewListenAddr) Origin() Origin { return OriginSwarm }

// ============================================================================
//                              gossip 事件
// ============================================================================

// GossipMessage 收到一条待裁决的 gossip 消息
//
// 引擎在收到 ReportValidationResult 之前不会转发该消息。
type GossipMessage struct {
	// ID 内容寻址消息 ID
	ID string
	// Source 传播来源（直接把消息转给本节点的对端）
	Source peer.ID
	Topic  string
	Data   []byte
}

// Origin 实现 Event
func (GossipMessage) Origin() Origin { return OriginGossip }

// ============================================================================
//                              Kademlia 事件
// ============================================================================

// KademliaQueryResult GetClosestPeers 查询结束
type KademliaQueryResult struct {
	Target peer.ID
	Peers  []peer.ID
	Err    error
}

// Origin 实现 Event
func (KademliaQueryResult) Origin() Origin { return OriginKademlia }

// KademliaBootstrapped 一轮引导结束
type KademliaBootstrapped struct {
	Err error
}

// Origin 实现 Event
func (KademliaBootstrapped) Origin() Origin { return OriginKademlia }

// ============================================================================
//                              identify 事件
// ============================================================================

// IdentifyReceived 收到对端的 identify 信息
type IdentifyReceived struct {
	Peer            peer.ID
	ListenAddrs     []ma.Multiaddr
	Protocols       []protocol.ID
	ObservedAddr    ma.Multiaddr
	ProtocolVersion string
	AgentVersion    string
}

// Origin 实现 Event
func (IdentifyReceived) Origin() Origin { return OriginIdentify }
