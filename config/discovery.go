package config

import "time"

// DHTMode DHT 运行模式
type DHTMode string

const (
	// DHTModeServer 服务端模式，响应其他节点的查询
	DHTModeServer DHTMode = "server"
	// DHTModeClient 客户端模式
	DHTModeClient DHTMode = "client"
	// DHTModeAuto 根据可达性自动切换
	DHTModeAuto DHTMode = "auto"
)

// DHTConfig Kademlia 配置
type DHTConfig struct {
	// Mode 运行模式
	Mode DHTMode `json:"mode"`

	// QueryTimeout 单次查询超时
	QueryTimeout Duration `json:"query_timeout"`

	// DiscoveryInterval 随机目标 GetClosestPeers 的间隔
	DiscoveryInterval Duration `json:"discovery_interval"`
}

// DefaultDHTConfig 返回默认 DHT 配置
func DefaultDHTConfig() DHTConfig {
	return DHTConfig{
		Mode:              DHTModeServer,
		QueryTimeout:      Duration(60 * time.Second),
		DiscoveryInterval: Duration(10 * time.Second),
	}
}

// Validate 验证 DHT 配置
func (c DHTConfig) Validate() error {
	switch c.Mode {
	case DHTModeServer, DHTModeClient, DHTModeAuto:
	default:
		return invalid("unknown dht mode %q", string(c.Mode))
	}
	if c.QueryTimeout <= 0 {
		return invalid("dht query timeout must be positive")
	}
	if c.DiscoveryInterval <= 0 {
		return invalid("dht discovery interval must be positive")
	}
	return nil
}

// DNSConfig DNS 种子配置
type DNSConfig struct {
	// Domains 各命名空间对应的种子域名
	//
	// 实际查询 "_dnsaddr.<domain>" 的 TXT 记录。
	Domains map[Network]string `json:"domains,omitempty"`

	// Server DNS 服务器地址（host:port），为空时读取 /etc/resolv.conf
	Server string `json:"server,omitempty"`

	// Timeout 单次查询超时
	Timeout Duration `json:"timeout"`

	// MaxDepth 嵌套 /dnsaddr 记录的最大递归深度
	MaxDepth int `json:"max_depth"`
}

// DefaultDNSConfig 返回默认 DNS 配置
func DefaultDNSConfig() DNSConfig {
	return DNSConfig{
		Domains: map[Network]string{
			NetworkMainnet: "splash.dexie.space",
			NetworkTestnet: "splash-testnet.dexie.space",
		},
		Timeout:  Duration(10 * time.Second),
		MaxDepth: 3,
	}
}

// Validate 验证 DNS 配置
func (c DNSConfig) Validate() error {
	if c.Timeout <= 0 {
		return invalid("dns timeout must be positive")
	}
	if c.MaxDepth < 1 {
		return invalid("dns max depth must be at least 1")
	}
	return nil
}

// DomainFor 返回命名空间对应的种子域名
func (c DNSConfig) DomainFor(n Network) (string, bool) {
	d, ok := c.Domains[n]
	return d, ok && d != ""
}
