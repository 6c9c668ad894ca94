package splash

import (
	"github.com/benbjohnson/clock"
	"github.com/libp2p/go-libp2p/core/crypto"
	ma "github.com/multiformats/go-multiaddr"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/core/eventloop"
	"github.com/mpwsh/splash/internal/core/host"
	"github.com/mpwsh/splash/internal/discovery/kademlia"
	"github.com/mpwsh/splash/internal/protocol/gossip"
	"github.com/mpwsh/splash/internal/protocol/identify"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置注入：统一配置、私钥、引导地址、identify 配置、事件循环配置与通道
//  2. 传输层：host（identify 通过 host_options 组贡献协议版本与 agent）
//  3. 协议引擎：gossip → kademlia → identify
//  4. 组合门面：behaviour（停止时关闭全部引擎）
//  5. 事件循环：启动时绑定监听地址、加入 topic；停止时先于门面退出
func buildFxApp(n *Node, seeds []ma.Multiaddr) (*fx.App, error) {
	loopCfg := eventloop.Config{
		Topic:             n.cfg.Network.Topic(),
		ListenAddrs:       n.listenAddrs,
		DiscoveryInterval: n.cfg.DHT.DiscoveryInterval.Duration(),
	}

	modules := []fx.Option{
		// ════════════════════════════════════════════════════════════════════
		// 1. 配置注入
		// ════════════════════════════════════════════════════════════════════
		fx.Supply(n.cfg),
		fx.Provide(func() crypto.PrivKey { return n.key }),
		fx.Supply(kademlia.Seeds(seeds)),
		fx.Supply(identify.ConfigFor(n.cfg.Network, Version)),
		fx.Supply(loopCfg),
		fx.Supply(eventloop.Channels{Submissions: n.submissions, Events: n.events}),
		fx.Provide(func() clock.Clock { return n.clock }),

		// ════════════════════════════════════════════════════════════════════
		// 2-5. 组件
		// ════════════════════════════════════════════════════════════════════
		host.Module,
		gossip.Module,
		kademlia.Module,
		identify.Module,
		behaviour.Module,
		eventloop.Module,

		fx.Populate(&n.host, &n.loop),

		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
