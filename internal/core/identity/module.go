package identity

import (
	"github.com/libp2p/go-libp2p/core/crypto"
	"go.uber.org/fx"

	"github.com/mpwsh/splash/config"
)

// Module 身份模块
//
// 按统一配置提供节点私钥。调用方已持有私钥时直接 Supply，不加载本模块。
var Module = fx.Module("identity",
	fx.Provide(ProvideKey),
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// ProvideKey 提供节点私钥
func ProvideKey(in ModuleInput) (crypto.PrivKey, error) {
	if in.UnifiedCfg == nil {
		return Generate()
	}
	return FromConfig(in.UnifiedCfg.Identity)
}

// FromConfig 未指定密钥文件时生成新密钥，否则加载或生成
func FromConfig(cfg config.IdentityConfig) (crypto.PrivKey, error) {
	if cfg.KeyFile == "" {
		return Generate()
	}
	return LoadOrGenerate(cfg.KeyFile)
}
