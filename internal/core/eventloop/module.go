package eventloop

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/pkg/types"
)

// Module 事件循环模块
//
// 需要容器中提供 Config 与 Channels，且须排在 behaviour 模块之后，
// 保证停止时先停循环再关闭引擎。
var Module = fx.Module("eventloop",
	fx.Provide(ProvideLoop),
	fx.Invoke(registerLifecycle),
)

// Channels 节点与事件循环之间的通道
type Channels struct {
	Submissions <-chan []byte
	Events      chan<- types.Event
}

// Params 模块输入依赖
type Params struct {
	fx.In

	Behaviour *behaviour.Behaviour
	Config    Config
	Channels  Channels
	Clock     clock.Clock `optional:"true"`
}

// ProvideLoop 提供事件循环
func ProvideLoop(p Params) *Loop {
	var opts []Option
	if p.Clock != nil {
		opts = append(opts, WithClock(p.Clock))
	}
	return New(p.Behaviour, p.Config, p.Channels.Submissions, p.Channels.Events, opts...)
}

func registerLifecycle(lc fx.Lifecycle, l *Loop) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return l.Start()
		},
		OnStop: func(context.Context) error {
			l.Stop()
			return nil
		},
	})
}
