package behaviour

import (
	"context"

	"go.uber.org/fx"
)

// Module 组合门面模块
var Module = fx.Module("behaviour",
	fx.Provide(NewFromParams),
	fx.Invoke(registerLifecycle),
)

// Params 门面依赖
type Params struct {
	fx.In

	Swarm    Swarm
	Gossip   Gossip
	Kademlia Kademlia
	Identify Identify
}

// NewFromParams 从 Fx 参数创建 Behaviour
func NewFromParams(p Params) *Behaviour {
	return New(p.Swarm, p.Gossip, p.Kademlia, p.Identify)
}

// registerLifecycle 门面持有全部引擎，停止时统一关闭
func registerLifecycle(lc fx.Lifecycle, b *Behaviour) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return b.Close()
		},
	})
}
