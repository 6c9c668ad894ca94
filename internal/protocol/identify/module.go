package identify

import (
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/internal/core/behaviour"
)

// Module identify 模块
//
// 需要容器中提供 Config。
var Module = fx.Module("identify",
	fx.Provide(
		fx.Annotate(HostOption, fx.ResultTags(`group:"host_options"`)),
		ProvideEngine,
	),
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	Libp2p p2phost.Host
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Engine   *Engine
	Identify behaviour.Identify
}

// ProvideEngine 提供 identify 引擎
func ProvideEngine(in ModuleInput) (ModuleOutput, error) {
	e, err := New(in.Libp2p)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Engine: e, Identify: e}, nil
}

