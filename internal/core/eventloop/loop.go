package eventloop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/discovery/kademlia"
	"github.com/mpwsh/splash/internal/protocol/message"
	"github.com/mpwsh/splash/internal/util/addrutil"
	"github.com/mpwsh/splash/internal/util/logger"
	"github.com/mpwsh/splash/pkg/types"
)

var log = logger.Logger("core/eventloop")

// Engine 事件循环驱动的协议门面
//
// *behaviour.Behaviour 实现该接口。
type Engine interface {
	Events() <-chan behaviour.Event
	LocalPeer() peer.ID
	Listen(addrs ...ma.Multiaddr) error
	Subscribe(topic string) error
	Publish(ctx context.Context, topic string, data []byte) error
	ReportValidationResult(id string, source peer.ID, acc behaviour.Acceptance) error
	AddAddress(id peer.ID, addr ma.Multiaddr)
	AddExternalAddress(addr ma.Multiaddr)
	GetClosestPeers(target peer.ID)
}

// TargetFunc 生成随机游走查询目标
type TargetFunc func() (peer.ID, error)

// Option 事件循环选项
type Option func(*Loop)

// WithClock 替换时钟
func WithClock(c clock.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithTargetFunc 替换查询目标生成器
func WithTargetFunc(fn TargetFunc) Option {
	return func(l *Loop) { l.target = fn }
}

// Loop 节点主事件循环
type Loop struct {
	engine      Engine
	cfg         Config
	submissions <-chan []byte
	events      chan<- types.Event

	clock  clock.Clock
	target TargetFunc

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New 创建事件循环
//
// submissions 由节点的 Broadcast 写入；events 是对外的节点事件通道。
func New(engine Engine, cfg Config, submissions <-chan []byte, events chan<- types.Event, opts ...Option) *Loop {
	l := &Loop{
		engine:      engine,
		cfg:         cfg,
		submissions: submissions,
		events:      events,
		clock:       clock.New(),
		target:      kademlia.RandomPeerID,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cfg.DiscoveryInterval <= 0 {
		l.cfg.DiscoveryInterval = 10 * time.Second
	}
	return l
}

// Start 绑定监听地址、加入 topic 并启动循环
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return ErrAlreadyStarted
	}

	if err := l.engine.Listen(l.cfg.ListenAddrs...); err != nil {
		return fmt.Errorf("%w: %v", ErrListen, err)
	}
	if err := l.engine.Subscribe(l.cfg.Topic); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSubscribe, l.cfg.Topic, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.started = true

	go l.run(ctx)
	return nil
}

// Stop 停止循环并等待退出
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return
	}
	l.cancel()
	l.mu.Unlock()

	<-l.done
}

// Done 循环退出后关闭
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)

	local := l.engine.LocalPeer()
	log.Info("事件循环已启动", "peer", local, "topic", l.cfg.Topic)
	if !l.emit(ctx, types.NewEvtInitialized(local)) {
		return
	}

	ticker := l.clock.Ticker(l.cfg.DiscoveryInterval)
	defer ticker.Stop()

	l.discover()

	protocolEvents := l.engine.Events()
	for {
		select {
		case <-ctx.Done():
			log.Info("事件循环已停止")
			return

		case data := <-l.submissions:
			l.broadcast(ctx, data)

		case <-ticker.C:
			l.discover()

		case evt, ok := <-protocolEvents:
			if !ok {
				log.Warn("协议事件源已关闭，事件循环退出")
				return
			}
			l.handle(ctx, evt)
		}
	}
}

// broadcast 发布一条已通过校验的提交
func (l *Loop) broadcast(ctx context.Context, data []byte) {
	if err := l.engine.Publish(ctx, l.cfg.Topic, data); err != nil {
		log.Warn("消息广播失败", "size", len(data), "err", err)
		l.emit(ctx, types.NewEvtMessageBroadcastFailed(err))
		return
	}
	log.Debug("消息已广播", "id", message.ID(data), "size", len(data))
	l.emit(ctx, types.NewEvtMessageBroadcasted(message.Text(data)))
}

// discover 以随机目标发起一次最近节点查询
func (l *Loop) discover() {
	target, err := l.target()
	if err != nil {
		log.Warn("生成查询目标失败", "err", err)
		return
	}
	log.Debug("发起随机游走查询", "target", target)
	l.engine.GetClosestPeers(target)
}

// handle 处理一条协议事件
func (l *Loop) handle(ctx context.Context, evt behaviour.Event) {
	switch e := evt.(type) {
	case behaviour.ConnectionEstablished:
		l.emit(ctx, types.NewEvtPeerConnected(e.Peer))

	case behaviour.ConnectionClosed:
		l.emit(ctx, types.NewEvtPeerDisconnected(e.Peer))

	case behaviour.NewListenAddr:
		log.Info("新的监听地址", "addr", e.Addr)
		l.emit(ctx, types.NewEvtNewListenAddress(e.Addr))

	case behaviour.GossipMessage:
		l.inbound(ctx, e)

	case behaviour.IdentifyReceived:
		l.identified(e)

	case behaviour.KademliaQueryResult:
		log.Debug("最近节点查询结束", "target", e.Target, "peers", len(e.Peers), "err", e.Err)

	case behaviour.KademliaBootstrapped:
		log.Debug("DHT 引导结束", "err", e.Err)

	default:
		log.Debug("忽略协议事件", "origin", evt.Origin(), "type", fmt.Sprintf("%T", evt))
	}
}

// inbound 校验收到的 gossip 消息并给出裁决
func (l *Loop) inbound(ctx context.Context, m behaviour.GossipMessage) {
	if err := message.Validate(m.Data); err != nil {
		log.Warn("拒绝无效消息", "id", m.ID, "source", m.Source, "err", err)
		l.report(m, behaviour.Reject)
		return
	}

	l.emit(ctx, types.NewEvtMessageReceived(message.Text(m.Data)))
	l.report(m, behaviour.Accept)
}

func (l *Loop) report(m behaviour.GossipMessage, acc behaviour.Acceptance) {
	if err := l.engine.ReportValidationResult(m.ID, m.Source, acc); err != nil {
		log.Debug("提交裁决失败", "id", m.ID, "acceptance", acc, "err", err)
	}
}

// identified 接纳对端公布的全局地址，并信任其观察到的本地地址
func (l *Loop) identified(e behaviour.IdentifyReceived) {
	admitted := 0
	for _, addr := range e.ListenAddrs {
		if addrutil.IsNonGlobal(addr) {
			continue
		}
		l.engine.AddAddress(e.Peer, addr)
		admitted++
	}
	log.Debug("identify 信息",
		"peer", e.Peer,
		"agent", e.AgentVersion,
		"addrs", len(e.ListenAddrs),
		"admitted", admitted,
		"observed", e.ObservedAddr)

	// 观察地址未经校验直接登记
	if e.ObservedAddr != nil {
		l.engine.AddExternalAddress(e.ObservedAddr)
	}
}

// emit 阻塞发送节点事件，循环停止时放弃
func (l *Loop) emit(ctx context.Context, evt types.Event) bool {
	select {
	case l.events <- evt:
		return true
	case <-ctx.Done():
		return false
	}
}
