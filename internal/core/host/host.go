package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/event"
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/muxer/yamux"
	"github.com/libp2p/go-libp2p/p2p/net/connmgr"
	"github.com/libp2p/go-libp2p/p2p/security/noise"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/util/addrutil"
	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("core/host")

// Host go-libp2p 传输层适配
type Host struct {
	h        p2phost.Host
	external *externalAddrs
	notifiee *network.NotifyBundle
	addrSub  event.Subscription

	events chan behaviour.Event

	// announced 已报告过的监听地址
	announcedMu sync.Mutex
	announced   map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

var _ behaviour.Swarm = (*Host)(nil)

// New 创建传输层，extra 追加 libp2p 选项（例如 identify 的协议版本）
func New(cfg Config, key crypto.PrivKey, extra ...libp2p.Option) (*Host, error) {
	external, err := newExternalAddrs(cfg.MaxExternalAddrs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cm, err := connmgr.NewConnManager(cfg.LowWater, cfg.HighWater, connmgr.WithGracePeriod(cfg.GracePeriod))
	if err != nil {
		return nil, fmt.Errorf("%w: connection manager: %v", ErrInvalidConfig, err)
	}

	opts := []libp2p.Option{
		libp2p.Identity(key),
		libp2p.NoListenAddrs,
		libp2p.Transport(tcp.NewTCPTransport),
		libp2p.Security(noise.ID, noise.New),
		libp2p.Muxer(yamux.ID, yamux.DefaultTransport),
		libp2p.ConnectionManager(cm),
		libp2p.AddrsFactory(external.factory),
	}
	opts = append(opts, extra...)

	h, err := libp2p.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	sub, err := h.EventBus().Subscribe(new(event.EvtLocalAddressesUpdated))
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: subscribe address updates: %v", ErrTransport, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	host := &Host{
		h:         h,
		external:  external,
		addrSub:   sub,
		events:    make(chan behaviour.Event, cfg.EventBuffer),
		announced: make(map[string]struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	host.notifiee = &network.NotifyBundle{
		ConnectedF: func(_ network.Network, c network.Conn) {
			host.emit(behaviour.ConnectionEstablished{Peer: c.RemotePeer(), RemoteAddr: c.RemoteMultiaddr()})
		},
		DisconnectedF: func(_ network.Network, c network.Conn) {
			host.emit(behaviour.ConnectionClosed{Peer: c.RemotePeer(), RemoteAddr: c.RemoteMultiaddr()})
		},
	}
	h.Network().Notify(host.notifiee)

	host.wg.Add(1)
	go host.watchAddrs()

	log.Info("传输层已创建", "peer", h.ID())
	return host, nil
}

// Libp2p 返回底层 libp2p Host，供协议引擎挂载
func (h *Host) Libp2p() p2phost.Host {
	return h.h
}

// LocalPeer 返回本地 PeerID
func (h *Host) LocalPeer() peer.ID {
	return h.h.ID()
}

// Events 实现 behaviour.EventSource
func (h *Host) Events() <-chan behaviour.Event {
	return h.events
}

// Listen 绑定监听地址
func (h *Host) Listen(addrs ...ma.Multiaddr) error {
	if err := h.h.Network().Listen(addrs...); err != nil {
		return fmt.Errorf("%w: %v", ErrListen, err)
	}
	log.Info("已绑定监听地址", "addrs", addrs)

	current := h.localAddrs()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for _, a := range current {
			h.announce(a)
		}
	}()
	return nil
}

// ListenAddrs 返回本地地址（不含外部地址）
func (h *Host) ListenAddrs() []ma.Multiaddr {
	return h.localAddrs()
}

// ExternalAddrs 返回已确认的外部地址
func (h *Host) ExternalAddrs() []ma.Multiaddr {
	return h.external.Addrs()
}

// AddExternalAddress 登记外部地址，不做可达性验证
func (h *Host) AddExternalAddress(addr ma.Multiaddr) {
	if addr == nil {
		return
	}
	if h.external.Add(addr) {
		log.Debug("登记外部地址", "addr", addr, "type", addrutil.AddrType(addr))
	}
}

func (h *Host) localAddrs() []ma.Multiaddr {
	all := h.h.Addrs()
	out := make([]ma.Multiaddr, 0, len(all))
	for _, a := range all {
		if !h.external.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// watchAddrs 把 libp2p 的地址变化转换为 NewListenAddr
func (h *Host) watchAddrs() {
	defer h.wg.Done()
	for {
		select {
		case <-h.ctx.Done():
			return
		case e, ok := <-h.addrSub.Out():
			if !ok {
				return
			}
			evt, ok := e.(event.EvtLocalAddressesUpdated)
			if !ok {
				continue
			}
			for _, u := range evt.Removed {
				h.forget(u.Address)
			}
			for _, u := range evt.Current {
				if u.Action == event.Added {
					h.announce(u.Address)
				}
			}
		}
	}
}

// announce 首次出现的本地地址报告一次
func (h *Host) announce(addr ma.Multiaddr) {
	if h.external.Contains(addr) {
		return
	}
	key := string(addr.Bytes())

	h.announcedMu.Lock()
	_, dup := h.announced[key]
	if !dup {
		h.announced[key] = struct{}{}
	}
	h.announcedMu.Unlock()

	if !dup {
		h.emit(behaviour.NewListenAddr{Addr: addr})
	}
}

func (h *Host) forget(addr ma.Multiaddr) {
	h.announcedMu.Lock()
	delete(h.announced, string(addr.Bytes()))
	h.announcedMu.Unlock()
}

// emit 阻塞发送，关闭后丢弃
func (h *Host) emit(evt behaviour.Event) {
	select {
	case h.events <- evt:
	case <-h.ctx.Done():
	}
}

// Close 关闭 libp2p Host
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		h.h.Network().StopNotify(h.notifiee)
		_ = h.addrSub.Close()
		h.closeErr = h.h.Close()
		h.wg.Wait()
		log.Info("传输层已关闭")
	})
	return h.closeErr
}
