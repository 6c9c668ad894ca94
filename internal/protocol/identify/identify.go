package identify

import (
	"context"
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/event"
	p2phost "github.com/libp2p/go-libp2p/core/host"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("protocol/identify")

// AgentPrefix agent 字符串前缀
const AgentPrefix = "splash/"

// Config identify 配置
type Config struct {
	// ProtocolVersion 例如 "/splash/id/1"
	ProtocolVersion string
	// AgentVersion 例如 "splash/0.3.0"
	AgentVersion string
}

// ConfigFor 由命名空间与版本号派生配置
func ConfigFor(network config.Network, version string) Config {
	return Config{
		ProtocolVersion: network.IdentifyProtocolVersion(),
		AgentVersion:    AgentPrefix + version,
	}
}

// HostOption 返回设置协议版本与 agent 的 libp2p 选项
func HostOption(cfg Config) libp2p.Option {
	return libp2p.ChainOptions(
		libp2p.ProtocolVersion(cfg.ProtocolVersion),
		libp2p.UserAgent(cfg.AgentVersion),
	)
}

// Engine identify 事件适配
type Engine struct {
	sub    event.Subscription
	events chan behaviour.Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

var _ behaviour.Identify = (*Engine)(nil)

// New 订阅 h 上的 identify 完成事件
func New(h p2phost.Host) (*Engine, error) {
	sub, err := h.EventBus().Subscribe(new(event.EvtPeerIdentificationCompleted))
	if err != nil {
		return nil, fmt.Errorf("identify: subscribe: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		sub:    sub,
		events: make(chan behaviour.Event, 16),
		ctx:    ctx,
		cancel: cancel,
	}

	e.wg.Add(1)
	go e.run()
	return e, nil
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case raw, ok := <-e.sub.Out():
			if !ok {
				return
			}
			evt, ok := raw.(event.EvtPeerIdentificationCompleted)
			if !ok {
				continue
			}

			log.Debug("identify 完成",
				"peer", evt.Peer,
				"agent", evt.AgentVersion,
				"protocolVersion", evt.ProtocolVersion,
				"listenAddrs", len(evt.ListenAddrs))

			out := behaviour.IdentifyReceived{
				Peer:            evt.Peer,
				ListenAddrs:     evt.ListenAddrs,
				Protocols:       evt.Protocols,
				ObservedAddr:    evt.ObservedAddr,
				ProtocolVersion: evt.ProtocolVersion,
				AgentVersion:    evt.AgentVersion,
			}
			select {
			case e.events <- out:
			case <-e.ctx.Done():
				return
			}
		}
	}
}

// Events 实现 behaviour.EventSource
func (e *Engine) Events() <-chan behaviour.Event {
	return e.events
}

// Close 取消订阅
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.cancel()
		err = e.sub.Close()
		e.wg.Wait()
	})
	return err
}
