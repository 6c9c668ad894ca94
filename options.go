package splash

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/libp2p/go-libp2p/core/crypto"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/discovery/dns"
)

// Option 节点配置选项
type Option func(*options) error

// options 内部选项结构
type options struct {
	// base 完整配置，其余字段在其上覆盖
	base *config.Config

	listenAddrs []string
	knownPeers  []string
	network     *config.Network
	keyFile     string

	// key 直接注入的私钥，优先于密钥文件
	key crypto.PrivKey

	resolver dns.Resolver
	clock    clock.Clock
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// toConfig 合并出最终配置
func (o *options) toConfig() *config.Config {
	var cfg *config.Config
	if o.base != nil {
		cfg = o.base.Clone()
	} else {
		cfg = config.NewConfig()
	}

	if len(o.listenAddrs) > 0 {
		cfg.ListenAddrs = append([]string(nil), o.listenAddrs...)
	}
	if len(o.knownPeers) > 0 {
		cfg.KnownPeers = append([]string(nil), o.knownPeers...)
	}
	if o.network != nil {
		cfg.Network = *o.network
	}
	if o.keyFile != "" {
		cfg.Identity.KeyFile = o.keyFile
	}
	return cfg
}

// ============================================================================
//                              网络选项
// ============================================================================

// WithListenAddrs 设置监听地址（multiaddr），可重复调用累加
//
// 未设置时监听 /ip4/0.0.0.0/tcp/0 与 /ip6/::/tcp/0。
func WithListenAddrs(addrs ...string) Option {
	return func(o *options) error {
		o.listenAddrs = append(o.listenAddrs, addrs...)
		return nil
	}
}

// WithKnownPeers 设置引导节点，地址必须以 /p2p/<PeerID> 结尾
//
// 未设置时通过 DNS 种子解析。
func WithKnownPeers(addrs ...string) Option {
	return func(o *options) error {
		o.knownPeers = append(o.knownPeers, addrs...)
		return nil
	}
}

// WithTestnet 使用测试网命名空间
func WithTestnet() Option {
	return WithNetwork(string(config.NetworkTestnet))
}

// WithNetwork 设置命名空间，只接受 "splash" 与 "splash-testnet"
func WithNetwork(name string) Option {
	return func(o *options) error {
		n := config.Network(name)
		if err := n.Validate(); err != nil {
			return err
		}
		o.network = &n
		return nil
	}
}

// ============================================================================
//                              身份选项
// ============================================================================

// WithIdentity 使用指定私钥
func WithIdentity(key crypto.PrivKey) Option {
	return func(o *options) error {
		if key == nil {
			return fmt.Errorf("%w: identity key is nil", ErrInvalidConfig)
		}
		o.key = key
		return nil
	}
}

// WithIdentityFile 从文件加载私钥，加载失败时生成新密钥并写回
func WithIdentityFile(path string) Option {
	return func(o *options) error {
		o.keyFile = path
		return nil
	}
}

// ============================================================================
//                              其他选项
// ============================================================================

// WithConfig 使用完整配置，其他选项在其上覆盖
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
		}
		o.base = cfg
		return nil
	}
}

// WithDNSResolver 替换 DNS 种子解析器
func WithDNSResolver(r dns.Resolver) Option {
	return func(o *options) error {
		o.resolver = r
		return nil
	}
}

// WithClock 替换发现计时器使用的时钟
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}
