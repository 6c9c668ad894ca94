package metrics

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/mpwsh/splash/pkg/types"
)

// Metrics 节点指标
type Metrics struct {
	peers               atomic.Int64
	messagesBroadcasted atomic.Uint64
	messagesReceived    atomic.Uint64
	totalConnections    atomic.Uint64

	// receivedRate 最近 60 秒收到消息的速率
	receivedRate *RateMeter
}

// Option 指标选项
type Option func(*Metrics)

// WithClock 替换速率统计使用的时钟
func WithClock(c clock.Clock) Option {
	return func(m *Metrics) { m.receivedRate = NewRateMeter(c) }
}

// New 创建指标
func New(opts ...Option) *Metrics {
	m := &Metrics{receivedRate: NewRateMeter(clock.New())}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IncrementPeers 连接数加一并返回新值，同时累计总连接数
func (m *Metrics) IncrementPeers() int64 {
	m.totalConnections.Add(1)
	return m.peers.Add(1)
}

// DecrementPeers 连接数减一并返回新值，不会低于零
func (m *Metrics) DecrementPeers() int64 {
	for {
		cur := m.peers.Load()
		if cur <= 0 {
			return 0
		}
		if m.peers.CompareAndSwap(cur, cur-1) {
			return cur - 1
		}
	}
}

// IncrementMessagesBroadcasted 广播计数加一
func (m *Metrics) IncrementMessagesBroadcasted() uint64 {
	return m.messagesBroadcasted.Add(1)
}

// IncrementMessagesReceived 接收计数加一
func (m *Metrics) IncrementMessagesReceived() uint64 {
	m.receivedRate.Add(1)
	return m.messagesReceived.Add(1)
}

// Peers 当前连接数
func (m *Metrics) Peers() int64 { return m.peers.Load() }

// MessagesBroadcasted 已广播消息数
func (m *Metrics) MessagesBroadcasted() uint64 { return m.messagesBroadcasted.Load() }

// MessagesReceived 已接收消息数
func (m *Metrics) MessagesReceived() uint64 { return m.messagesReceived.Load() }

// TotalConnections 累计建立的连接数
func (m *Metrics) TotalConnections() uint64 { return m.totalConnections.Load() }

// ReceivedRate 最近 60 秒每秒收到的消息数
func (m *Metrics) ReceivedRate() float64 { return m.receivedRate.Rate() }

// Observe 根据节点事件更新指标
//
// 返回 false 表示该事件不影响指标。
func (m *Metrics) Observe(evt types.Event) bool {
	switch evt.(type) {
	case *types.EvtPeerConnected:
		m.IncrementPeers()
	case *types.EvtPeerDisconnected:
		m.DecrementPeers()
	case *types.EvtMessageBroadcasted:
		m.IncrementMessagesBroadcasted()
	case *types.EvtMessageReceived:
		m.IncrementMessagesReceived()
	default:
		return false
	}
	return true
}
