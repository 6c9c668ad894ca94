package kademlia

import (
	"time"

	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/util/addrutil"
)

// Seeds 引导地址集合
type Seeds []ma.Multiaddr

// Config DHT 引擎配置
type Config struct {
	// ProtocolPrefix 例如 "/splash"
	ProtocolPrefix protocol.ID

	// Protocol 实际使用的协议标识，例如 "/splash/kad/1"
	Protocol protocol.ID

	// Mode 运行模式
	Mode dht.ModeOpt

	// QueryTimeout 单次查询超时
	QueryTimeout time.Duration

	// EventBuffer 事件通道缓冲
	EventBuffer int

	// AddressFilter 过滤 DHT 收发的对端地址，nil 表示不过滤
	//
	// 作用于查询响应中学到的地址和应答 FIND_NODE 时返回的地址。
	// 引导地址与 AddAddress 登记的地址不经过它。
	AddressFilter func([]ma.Multiaddr) []ma.Multiaddr
}

// ConfigFromUnified 从统一配置创建 DHT 配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		ProtocolPrefix: cfg.Network.ProtocolPrefix(),
		Protocol:       cfg.Network.KadProtocol(),
		Mode:           modeOpt(cfg.DHT.Mode),
		QueryTimeout:   cfg.DHT.QueryTimeout.Duration(),
		EventBuffer:    32,
		AddressFilter:  addrutil.FilterGlobal,
	}
}

func modeOpt(m config.DHTMode) dht.ModeOpt {
	switch m {
	case config.DHTModeClient:
		return dht.ModeClient
	case config.DHTModeAuto:
		return dht.ModeAuto
	default:
		return dht.ModeServer
	}
}
