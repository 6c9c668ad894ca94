package config

import (
	"github.com/libp2p/go-libp2p/core/protocol"
)

// Network 网络命名空间
//
// 所有线上标识符（topic、DHT 协议、identify 协议版本）都由命名空间派生，
// 节点生命周期内固定不变。
type Network string

const (
	// NetworkMainnet 生产网络
	NetworkMainnet Network = "splash"

	// NetworkTestnet 测试网络
	NetworkTestnet Network = "splash-testnet"
)

// NetworkFor 根据是否为测试网返回命名空间
func NetworkFor(testnet bool) Network {
	if testnet {
		return NetworkTestnet
	}
	return NetworkMainnet
}

// Validate 只接受两个固定的命名空间
func (n Network) Validate() error {
	switch n {
	case NetworkMainnet, NetworkTestnet:
		return nil
	default:
		return invalid("unknown network %q", string(n))
	}
}

// String 返回命名空间字符串
func (n Network) String() string {
	return string(n)
}

// IsTestnet 是否为测试网
func (n Network) IsTestnet() bool {
	return n == NetworkTestnet
}

// Topic 返回 gossip topic："/{ns}/messages/1"
func (n Network) Topic() string {
	return "/" + string(n) + "/messages/1"
}

// ProtocolPrefix 返回 DHT 协议前缀："/{ns}"
func (n Network) ProtocolPrefix() protocol.ID {
	return protocol.ID("/" + string(n))
}

// KadProtocol 返回 DHT 协议标识："/{ns}/kad/1"
func (n Network) KadProtocol() protocol.ID {
	return protocol.ID("/" + string(n) + "/kad/1")
}

// IdentifyProtocolVersion 返回 identify 协议版本："/{ns}/id/1"
func (n Network) IdentifyProtocolVersion() string {
	return "/" + string(n) + "/id/1"
}
