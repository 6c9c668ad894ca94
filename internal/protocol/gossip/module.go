package gossip

import (
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/behaviour"
)

// Module gossip 引擎模块
var Module = fx.Module("gossip",
	fx.Provide(ProvideEngine),
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Libp2p     p2phost.Host
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Engine *Engine
	Gossip behaviour.Gossip
}

// ProvideEngine 提供 gossip 引擎
func ProvideEngine(in ModuleInput) (ModuleOutput, error) {
	e, err := New(in.Libp2p, ConfigFromUnified(in.UnifiedCfg))
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Engine: e, Gossip: e}, nil
}
