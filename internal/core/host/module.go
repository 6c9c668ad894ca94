package host

import (
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/behaviour"
)

// Module 传输层模块
//
// 生命周期由 behaviour 门面负责，这里只负责构造。
var Module = fx.Module("host",
	fx.Provide(ProvideHost),
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Key        crypto.PrivKey

	// Options 其他模块贡献的 libp2p 选项
	Options []libp2p.Option `group:"host_options"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Host   *Host
	Swarm  behaviour.Swarm
	Libp2p p2phost.Host
}

// ProvideHost 提供传输层
func ProvideHost(in ModuleInput) (ModuleOutput, error) {
	h, err := New(ConfigFromUnified(in.UnifiedCfg), in.Key, in.Options...)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Host: h, Swarm: h, Libp2p: h.Libp2p()}, nil
}
