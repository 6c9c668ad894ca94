package kademlia

import (
	"context"
	"fmt"
	"sync"

	dht "github.com/libp2p/go-libp2p-kad-dht"
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/util/addrutil"
	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("discovery/kademlia")

// Engine DHT 引擎
type Engine struct {
	cfg  Config
	host p2phost.Host
	dht  *dht.IpfsDHT

	// book 路由表地址簿：PeerID -> 已接纳的地址
	bookMu sync.RWMutex
	book   map[peer.ID]map[string]ma.Multiaddr

	events chan behaviour.Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex // 保护 wg.Add 与关闭的先后

	closeOnce sync.Once
	closeErr  error
}

var _ behaviour.Kademlia = (*Engine)(nil)

// ParseSeeds 从引导地址提取 AddrInfo，任一地址缺少 PeerID 即失败
func ParseSeeds(seeds []ma.Multiaddr) ([]peer.AddrInfo, error) {
	byPeer := make(map[peer.ID]*peer.AddrInfo)
	var order []peer.ID
	for _, s := range seeds {
		id, transport, err := addrutil.ParseFullAddr(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMissingPeerID, s, err)
		}
		info, ok := byPeer[id]
		if !ok {
			info = &peer.AddrInfo{ID: id}
			byPeer[id] = info
			order = append(order, id)
		}
		if transport != nil {
			info.Addrs = append(info.Addrs, transport)
		}
	}

	out := make([]peer.AddrInfo, 0, len(order))
	for _, id := range order {
		out = append(out, *byPeer[id])
	}
	return out, nil
}

// New 创建 DHT 引擎并用 seeds 播种路由表
func New(h p2phost.Host, cfg Config, seeds []ma.Multiaddr) (*Engine, error) {
	infos, err := ParseSeeds(seeds)
	if err != nil {
		return nil, err
	}

	opts := []dht.Option{
		dht.Mode(cfg.Mode),
		dht.ProtocolPrefix(cfg.ProtocolPrefix),
		dht.V1ProtocolOverride(cfg.Protocol),
		dht.BootstrapPeers(infos...),
	}
	if cfg.AddressFilter != nil {
		opts = append(opts, dht.AddressFilter(cfg.AddressFilter))
	}

	ctx, cancel := context.WithCancel(context.Background())
	d, err := dht.New(ctx, h, opts...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}

	e := &Engine{
		cfg:    cfg,
		host:   h,
		dht:    d,
		book:   make(map[peer.ID]map[string]ma.Multiaddr),
		events: make(chan behaviour.Event, cfg.EventBuffer),
		ctx:    ctx,
		cancel: cancel,
	}

	for _, s := range seeds {
		id, _, _ := addrutil.ParseFullAddr(s)
		e.AddAddress(id, s)
	}

	log.Info("DHT 已创建",
		"protocol", cfg.Protocol,
		"mode", cfg.Mode,
		"seeds", len(infos),
		"queryTimeout", cfg.QueryTimeout)
	return e, nil
}

// Events 实现 behaviour.EventSource
func (e *Engine) Events() <-chan behaviour.Event {
	return e.events
}

// AddAddress 把地址登记到路由表地址簿
//
// addr 末尾的 /p2p 组件会被去掉。
func (e *Engine) AddAddress(id peer.ID, addr ma.Multiaddr) {
	if id == "" || id == e.host.ID() || addr == nil {
		return
	}
	if transport, pid := peer.SplitAddr(addr); pid != "" {
		if pid != id {
			log.Debug("地址中的 PeerID 与目标不一致，忽略", "peer", id, "addr", addr)
			return
		}
		addr = transport
	}
	if addr == nil {
		return
	}

	e.bookMu.Lock()
	addrs, ok := e.book[id]
	if !ok {
		addrs = make(map[string]ma.Multiaddr)
		e.book[id] = addrs
	}
	key := string(addr.Bytes())
	_, known := addrs[key]
	addrs[key] = addr
	e.bookMu.Unlock()

	e.host.Peerstore().AddAddr(id, addr, peerstore.PermanentAddrTTL)
	if _, err := e.dht.RoutingTable().TryAddPeer(id, true, true); err != nil {
		log.Debug("路由表拒绝对端", "peer", id, "err", err)
	}
	if !known {
		log.Debug("路由表登记地址", "peer", id, "addr", addr, "type", addrutil.AddrType(addr))
	}
}

// Addresses 返回地址簿中某个对端的地址
func (e *Engine) Addresses(id peer.ID) []ma.Multiaddr {
	e.bookMu.RLock()
	defer e.bookMu.RUnlock()

	out := make([]ma.Multiaddr, 0, len(e.book[id]))
	for _, a := range e.book[id] {
		out = append(out, a)
	}
	return out
}

// Peers 返回地址簿中的全部对端
func (e *Engine) Peers() []peer.ID {
	e.bookMu.RLock()
	defer e.bookMu.RUnlock()

	out := make([]peer.ID, 0, len(e.book))
	for id := range e.book {
		out = append(out, id)
	}
	return out
}

// Bootstrap 触发一轮引导
func (e *Engine) Bootstrap(ctx context.Context) error {
	err := e.dht.Bootstrap(ctx)
	if err != nil {
		log.Warn("DHT 引导失败", "err", err)
	} else {
		log.Info("DHT 引导已触发", "routingTable", e.dht.RoutingTable().Size())
	}
	e.emit(behaviour.KademliaBootstrapped{Err: err})
	return err
}

// GetClosestPeers 异步查询最近节点
func (e *Engine) GetClosestPeers(target peer.ID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx.Err() != nil {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(e.ctx, e.cfg.QueryTimeout)
		defer cancel()

		peers, err := e.dht.GetClosestPeers(ctx, string(target))
		if err != nil {
			log.Debug("最近节点查询失败", "target", target, "err", err)
		} else {
			log.Debug("最近节点查询完成", "target", target, "peers", len(peers))
		}
		e.emit(behaviour.KademliaQueryResult{Target: target, Peers: peers, Err: err})
	}()
}

func (e *Engine) emit(evt behaviour.Event) {
	select {
	case e.events <- evt:
	case <-e.ctx.Done():
	}
}

// Close 取消进行中的查询并关闭 DHT
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.cancel()
		e.mu.Unlock()

		e.wg.Wait()
		e.closeErr = e.dht.Close()
		log.Info("DHT 已关闭")
	})
	return e.closeErr
}
