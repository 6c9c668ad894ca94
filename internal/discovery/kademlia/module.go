package kademlia

import (
	"context"

	p2phost "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/behaviour"
)

// Module DHT 模块
//
// 需要容器中提供 Seeds。
var Module = fx.Module("kademlia",
	fx.Provide(ProvideEngine),
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Libp2p     p2phost.Host
	Seeds      Seeds
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Engine   *Engine
	Kademlia behaviour.Kademlia
}

// ProvideEngine 创建引擎，播种后立即引导一次
func ProvideEngine(in ModuleInput) (ModuleOutput, error) {
	e, err := New(in.Libp2p, ConfigFromUnified(in.UnifiedCfg), in.Seeds)
	if err != nil {
		return ModuleOutput{}, err
	}
	_ = e.Bootstrap(context.Background())
	return ModuleOutput{Engine: e, Kademlia: e}, nil
}
