package addrutil

import (
	"errors"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

var (
	// ErrMissingPeerID 地址末尾缺少 /p2p/<PeerID> 组件
	ErrMissingPeerID = errors.New("addrutil: missing terminal /p2p/<PeerID> component")

	// ErrInvalidPeerID /p2p 组件中的 PeerID 无法解码
	ErrInvalidPeerID = errors.New("addrutil: invalid peer ID in address")

	// ErrEmptyAddress 空地址
	ErrEmptyAddress = errors.New("addrutil: empty address")
)

// ParseFullAddr 解析以 /p2p/<PeerID> 结尾的完整地址
//
// 返回 PeerID 与去掉末尾 /p2p 组件后的传输地址。仅包含 /p2p 组件时
// 传输地址为 nil。
//
//	id, transport, _ := ParseFullAddr(ma.StringCast("/ip4/1.2.3.4/tcp/4001/p2p/12D3Koo..."))
//	// transport = /ip4/1.2.3.4/tcp/4001
func ParseFullAddr(addr ma.Multiaddr) (peer.ID, ma.Multiaddr, error) {
	if addr == nil || len(addr.Bytes()) == 0 {
		return "", nil, ErrEmptyAddress
	}

	transport, last := ma.SplitLast(addr)
	if last == nil || last.Protocol().Code != ma.P_P2P {
		return "", nil, fmt.Errorf("%w: %s", ErrMissingPeerID, addr)
	}

	id, err := peer.IDFromBytes(last.RawValue())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrInvalidPeerID, addr, err)
	}
	return id, transport, nil
}

// ParseFullAddrString 解析字符串形式的完整地址
func ParseFullAddrString(s string) (peer.ID, ma.Multiaddr, error) {
	if s == "" {
		return "", nil, ErrEmptyAddress
	}
	addr, err := ma.NewMultiaddr(s)
	if err != nil {
		return "", nil, fmt.Errorf("addrutil: parse %q: %w", s, err)
	}
	return ParseFullAddr(addr)
}

// BuildFullAddr 在传输地址后追加 /p2p/<PeerID>
func BuildFullAddr(transport ma.Multiaddr, id peer.ID) (ma.Multiaddr, error) {
	p2p, err := ma.NewComponent("p2p", id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeerID, err)
	}
	if transport == nil {
		return p2p, nil
	}
	return transport.Encapsulate(p2p), nil
}
