// Package config 提供 splash 节点的统一配置
//
// 主 Config 结构体嵌入各子配置，每个子配置在独立文件中定义，
// 提供 DefaultXConfig、Validate 与 WithX 方法。支持从 JSON 加载。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Network = config.NetworkTestnet
//	cfg.KnownPeers = []string{"/ip4/1.2.3.4/tcp/4001/p2p/12D3Koo..."}
//
//	cfg, err := config.LoadFile("splash.json")
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = errors.New("config: invalid configuration")

// DefaultListenAddrs 未指定监听地址时使用的默认值（所有接口，IPv4 与 IPv6，随机端口）
var DefaultListenAddrs = []string{
	"/ip4/0.0.0.0/tcp/0",
	"/ip6/::/tcp/0",
}

// Config 是 splash 节点的完整配置
type Config struct {
	// Network 网络命名空间，只能是 NetworkMainnet 或 NetworkTestnet
	Network Network `json:"network"`

	// ListenAddrs 监听地址（multiaddr），为空时使用 DefaultListenAddrs
	ListenAddrs []string `json:"listen_addrs,omitempty"`

	// KnownPeers 引导节点地址，必须以 /p2p/<PeerID> 结尾
	//
	// 为空时通过 DNS 种子解析获取。
	KnownPeers []string `json:"known_peers,omitempty"`

	// Identity 身份配置
	Identity IdentityConfig `json:"identity"`

	// Gossip gossip 配置
	Gossip GossipConfig `json:"gossip"`

	// DHT Kademlia 配置
	DHT DHTConfig `json:"dht"`

	// DNS DNS 种子配置
	DNS DNSConfig `json:"dns"`

	// ConnMgr 连接管理配置
	ConnMgr ConnManagerConfig `json:"conn_mgr"`

	// Queues 提交队列与事件通道容量
	Queues QueueConfig `json:"queues"`

	// API 外围 HTTP/WebSocket 服务配置（仅 CLI 使用）
	API APIConfig `json:"api"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Network:  NetworkMainnet,
		Identity: DefaultIdentityConfig(),
		Gossip:   DefaultGossipConfig(),
		DHT:      DefaultDHTConfig(),
		DNS:      DefaultDNSConfig(),
		ConnMgr:  DefaultConnManagerConfig(),
		Queues:   DefaultQueueConfig(),
		API:      DefaultAPIConfig(),
	}
}

// Clone 返回配置的深拷贝
func (c *Config) Clone() *Config {
	out := *c
	out.ListenAddrs = append([]string(nil), c.ListenAddrs...)
	out.KnownPeers = append([]string(nil), c.KnownPeers...)
	out.DNS.Domains = make(map[Network]string, len(c.DNS.Domains))
	for k, v := range c.DNS.Domains {
		out.DNS.Domains[k] = v
	}
	return &out
}

// EffectiveListenAddrs 返回实际使用的监听地址
func (c *Config) EffectiveListenAddrs() []string {
	if len(c.ListenAddrs) == 0 {
		return append([]string(nil), DefaultListenAddrs...)
	}
	return c.ListenAddrs
}

// Validate 验证配置的有效性
//
// 这里只检查取值范围，地址的语法在节点构建时解析。
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}
	validators := []interface{ Validate() error }{
		c.Identity, c.Gossip, c.DHT, c.DNS, c.ConnMgr, c.Queues, c.API,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
