package behaviour

import (
	"context"
	"sync"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"go.uber.org/multierr"

	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("core/behaviour")

// Behaviour 协议引擎组合门面
type Behaviour struct {
	swarm    Swarm
	gossip   Gossip
	kad      Kademlia
	identify Identify

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// New 组合四个引擎并开始合并事件流
func New(swarm Swarm, gossip Gossip, kad Kademlia, identify Identify) *Behaviour {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Behaviour{
		swarm:    swarm,
		gossip:   gossip,
		kad:      kad,
		identify: identify,
		events:   make(chan Event),
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, src := range []EventSource{swarm, gossip, kad, identify} {
		b.wg.Add(1)
		go b.forward(src.Events())
	}
	return b
}

// forward 把单个引擎的事件转入合并通道，保持该引擎内部的顺序
func (b *Behaviour) forward(in <-chan Event) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case evt, ok := <-in:
			if !ok {
				return
			}
			select {
			case b.events <- evt:
			case <-b.ctx.Done():
				return
			}
		}
	}
}

// Events 返回合并后的事件源
func (b *Behaviour) Events() <-chan Event {
	return b.events
}

// ============================================================================
//                              传输层命令
// ============================================================================

// LocalPeer 返回本地 PeerID
func (b *Behaviour) LocalPeer() peer.ID {
	return b.swarm.LocalPeer()
}

// Listen 绑定监听地址
func (b *Behaviour) Listen(addrs ...ma.Multiaddr) error {
	return b.swarm.Listen(addrs...)
}

// ListenAddrs 返回当前监听地址
func (b *Behaviour) ListenAddrs() []ma.Multiaddr {
	return b.swarm.ListenAddrs()
}

// AddExternalAddress 登记外部地址
func (b *Behaviour) AddExternalAddress(addr ma.Multiaddr) {
	b.swarm.AddExternalAddress(addr)
}

// ============================================================================
//                              gossip 命令
// ============================================================================

// Subscribe 加入 topic
func (b *Behaviour) Subscribe(topic string) error {
	return b.gossip.Subscribe(topic)
}

// Publish 发布消息
func (b *Behaviour) Publish(ctx context.Context, topic string, data []byte) error {
	return b.gossip.Publish(ctx, topic, data)
}

// ReportValidationResult 裁决 gossip 消息
func (b *Behaviour) ReportValidationResult(id string, source peer.ID, acc Acceptance) error {
	return b.gossip.ReportValidationResult(id, source, acc)
}

// ============================================================================
//                              Kademlia 命令
// ============================================================================

// AddAddress 登记路由表地址
func (b *Behaviour) AddAddress(id peer.ID, addr ma.Multiaddr) {
	b.kad.AddAddress(id, addr)
}

// Bootstrap 触发一轮引导
func (b *Behaviour) Bootstrap(ctx context.Context) error {
	return b.kad.Bootstrap(ctx)
}

// GetClosestPeers 发起最近节点查询
func (b *Behaviour) GetClosestPeers(target peer.ID) {
	b.kad.GetClosestPeers(target)
}

// ============================================================================
//                              生命周期
// ============================================================================

// Close 停止事件合并并依次关闭各引擎，传输层最后关闭
func (b *Behaviour) Close() error {
	b.closeOnce.Do(func() {
		b.cancel()
		b.wg.Wait()

		b.closeErr = multierr.Combine(
			b.gossip.Close(),
			b.kad.Close(),
			b.identify.Close(),
			b.swarm.Close(),
		)
		if b.closeErr != nil {
			log.Warn("关闭协议引擎时出错", "err", b.closeErr)
		}
	})
	return b.closeErr
}
