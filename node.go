package splash

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/core/eventloop"
	"github.com/mpwsh/splash/internal/core/host"
	"github.com/mpwsh/splash/internal/core/identity"
	"github.com/mpwsh/splash/internal/discovery/dns"
	"github.com/mpwsh/splash/internal/protocol/message"
	"github.com/mpwsh/splash/internal/util/addrutil"
	"github.com/mpwsh/splash/internal/util/logger"
	"github.com/mpwsh/splash/pkg/types"
)

var log = logger.Logger("splash")

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// stopTimeout Fx App 停止超时
	stopTimeout = 10 * time.Second
)

// NodeState 节点状态
type NodeState int

const (
	// StateConfiguring 已创建，未启动
	StateConfiguring NodeState = iota

	// StateRunning 事件循环运行中
	StateRunning

	// StateClosed 已关闭
	StateClosed
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Node Splash! 节点
//
// Broadcast 与 Events 可以在不同 goroutine 中并发使用。
// 事件通道只应有一个消费者。
type Node struct {
	cfg *config.Config
	key crypto.PrivKey
	id  peer.ID

	listenAddrs []ma.Multiaddr
	knownPeers  []ma.Multiaddr

	resolver dns.Resolver
	clock    clock.Clock

	// submissions 待广播消息队列，满时 Broadcast 阻塞
	submissions chan []byte

	// events 节点事件，满时事件循环阻塞
	events chan types.Event

	// done Close 时关闭，解除阻塞中的 Broadcast
	done chan struct{}

	mu    sync.Mutex
	state NodeState
	app   *fx.App

	// 以下组件由 Fx 注入，Start 成功后可用
	host *host.Host
	loop *eventloop.Loop

	closeOnce sync.Once
	closeErr  error
}

// New 创建节点但不启动
//
// 所有配置在这里校验：未知命名空间、无法解析的监听地址、
// 缺少 /p2p 组件的引导地址都会在绑定任何监听地址之前返回错误。
func New(opts ...Option) (*Node, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg := o.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	listenAddrs, err := parseListenAddrs(cfg.EffectiveListenAddrs())
	if err != nil {
		return nil, err
	}
	knownPeers, err := parseBootstrapAddrs(cfg.KnownPeers)
	if err != nil {
		return nil, err
	}

	key := o.key
	if key == nil {
		if key, err = identity.FromConfig(cfg.Identity); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	id, err := identity.PeerID(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	resolver := o.resolver
	if resolver == nil {
		resolver = dns.NewTXTResolver(cfg.DNS)
	}
	clk := o.clock
	if clk == nil {
		clk = clock.New()
	}

	return &Node{
		cfg:         cfg,
		key:         key,
		id:          id,
		listenAddrs: listenAddrs,
		knownPeers:  knownPeers,
		resolver:    resolver,
		clock:       clk,
		submissions: make(chan []byte, cfg.Queues.SubmissionCapacity),
		events:      make(chan types.Event, cfg.Queues.EventCapacity),
		done:        make(chan struct{}),
	}, nil
}

// Start 创建并启动节点，等价于 New + Node.Start
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	n, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Start(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

// Start 启动节点
//
// 依次解析引导节点（仅在未配置已知节点时查询 DNS 种子）、构造协议引擎、
// 绑定监听地址、加入 topic 并启动事件循环。任一步失败都返回启动错误，
// 已构造的组件会被关闭。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateClosed:
		return ErrNodeClosed
	case StateRunning:
		return ErrAlreadyStarted
	}

	seeds, err := n.bootstrapPeers(ctx)
	if err != nil {
		return err
	}

	app, err := buildFxApp(n, seeds)
	if err != nil {
		n.host, n.loop = nil, nil
		return startupError(err)
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Error("节点启动失败", "err", err)
		n.host, n.loop = nil, nil
		return startupError(err)
	}

	n.app = app
	n.state = StateRunning
	log.Info("节点已启动",
		"peer", n.id,
		"network", n.cfg.Network,
		"topic", n.cfg.Network.Topic(),
		"bootstrap", len(seeds))
	return nil
}

// bootstrapPeers 返回引导地址，未配置时查询一次 DNS 种子
func (n *Node) bootstrapPeers(ctx context.Context) ([]ma.Multiaddr, error) {
	if len(n.knownPeers) > 0 {
		return n.knownPeers, nil
	}

	addrs, err := n.resolver.Resolve(ctx, n.cfg.Network)
	switch {
	case errors.Is(err, dns.ErrNoRecordsFound):
		return nil, fmt.Errorf("%w: %w", ErrNoBootstrapPeers, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrDNSResolution, err)
	case len(addrs) == 0:
		return nil, fmt.Errorf("%w: dns seed for %s returned no addresses", ErrNoBootstrapPeers, n.cfg.Network)
	}

	for _, addr := range addrs {
		if _, _, err := addrutil.ParseFullAddr(addr); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPeerID, addr)
		}
	}
	log.Info("已从 DNS 种子获取引导节点", "count", len(addrs))
	return addrs, nil
}

// ============================================================================
//                              消息
// ============================================================================

// Broadcast 校验并提交一条待广播消息
//
// 超过 300 KiB 的消息立即返回 ErrMessageTooLarge，不入队也不产生事件。
// 队列满时阻塞，直到有空位、ctx 结束（返回 ctx.Err()）或节点关闭
// （返回 ErrSendFailed）。发布结果通过 MessageBroadcasted 或
// MessageBroadcastFailed 事件报告。
func (n *Node) Broadcast(ctx context.Context, msg []byte) error {
	if err := message.Validate(msg); err != nil {
		return err
	}

	select {
	case <-n.done:
		return ErrSendFailed
	default:
	}

	data := append([]byte(nil), msg...)
	select {
	case n.submissions <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-n.done:
		return ErrSendFailed
	}
}

// BroadcastString 以字符串形式提交消息
func (n *Node) BroadcastString(ctx context.Context, msg string) error {
	if err := message.ValidateString(msg); err != nil {
		return err
	}
	return n.Broadcast(ctx, []byte(msg))
}

// Events 返回节点事件通道，节点关闭后通道关闭
func (n *Node) Events() <-chan types.Event {
	return n.events
}

// ============================================================================
//                              基本信息
// ============================================================================

// ID 返回本地 PeerID
func (n *Node) ID() peer.ID {
	return n.id
}

// Network 返回网络命名空间
func (n *Node) Network() config.Network {
	return n.cfg.Network
}

// Topic 返回 gossip topic
func (n *Node) Topic() string {
	return n.cfg.Network.Topic()
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// ListenAddrs 返回当前监听地址，未启动时为空
func (n *Node) ListenAddrs() []ma.Multiaddr {
	n.mu.Lock()
	h := n.host
	n.mu.Unlock()

	if h == nil {
		return nil
	}
	return h.ListenAddrs()
}

// ============================================================================
//                              生命周期
// ============================================================================

// Close 停止事件循环、关闭全部引擎并关闭事件通道
//
// 返回前事件循环已经退出。可重复调用。
func (n *Node) Close() error {
	n.closeOnce.Do(func() {
		close(n.done)

		n.mu.Lock()
		app, loop := n.app, n.loop
		n.state = StateClosed
		n.mu.Unlock()

		if app != nil {
			ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			if err := app.Stop(ctx); err != nil {
				log.Warn("关闭节点时出错", "err", err)
				n.closeErr = err
			}
		}
		// 事件循环退出前仍可能写入事件通道
		if loop != nil {
			<-loop.Done()
		}
		close(n.events)
		log.Info("节点已关闭", "peer", n.id)
	})
	return n.closeErr
}

// ============================================================================
//                              地址解析
// ============================================================================

func parseListenAddrs(raw []string) ([]ma.Multiaddr, error) {
	out := make([]ma.Multiaddr, 0, len(raw))
	for _, s := range raw {
		addr, err := ma.NewMultiaddr(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidListenAddr, s, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

func parseBootstrapAddrs(raw []string) ([]ma.Multiaddr, error) {
	out := make([]ma.Multiaddr, 0, len(raw))
	for _, s := range raw {
		addr, err := ma.NewMultiaddr(s)
		if err != nil {
			return nil, fmt.Errorf("%w: known peer %q: %v", ErrInvalidConfig, s, err)
		}
		if _, _, err := addrutil.ParseFullAddr(addr); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPeerID, s)
		}
		out = append(out, addr)
	}
	return out, nil
}

// 确保 Behaviour 满足事件循环的引擎约束
var _ eventloop.Engine = (*behaviour.Behaviour)(nil)
