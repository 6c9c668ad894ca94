// Package addrutil 提供 multiaddr 地址的分类与解析工具
package addrutil

import (
	"net"

	ma "github.com/multiformats/go-multiaddr"
)

// ============================================================================
//                              地址质量过滤
// ============================================================================

// IsNonGlobal 判断地址是否包含非全局可达的 IP 组件
//
// 以下任一组件出现即视为非全局：
//   - IPv4 回环（127.0.0.0/8）
//   - IPv4 私网（10/8、172.16/12、192.168/16）
//   - IPv6 回环（::1）
//
// 其余地址一律视为可接纳，包括 DNS 名称、IPv6 ULA 与链路本地地址。
func IsNonGlobal(addr ma.Multiaddr) bool {
	if addr == nil {
		return false
	}

	nonGlobal := false
	ma.ForEach(addr, func(c ma.Component) bool {
		switch c.Protocol().Code {
		case ma.P_IP4:
			ip := net.ParseIP(c.Value()).To4()
			if ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
				nonGlobal = true
			}
		case ma.P_IP6:
			ip := net.ParseIP(c.Value())
			if ip != nil && ip.Equal(net.IPv6loopback) {
				nonGlobal = true
			}
		}
		return !nonGlobal
	})
	return nonGlobal
}

// FilterGlobal 返回 addrs 中未被 IsNonGlobal 拒绝的地址，保持原有顺序
func FilterGlobal(addrs []ma.Multiaddr) []ma.Multiaddr {
	out := make([]ma.Multiaddr, 0, len(addrs))
	for _, a := range addrs {
		if !IsNonGlobal(a) {
			out = append(out, a)
		}
	}
	return out
}

// ============================================================================
//                              地址类型描述
// ============================================================================

// AddrType 返回地址类型描述，用于日志
//
// 返回值：
//   - "loopback" - 回环地址
//   - "private" - 私网地址
//   - "public" - 公网地址
//   - "dns" - DNS 地址
//   - "unknown" - 未知类型
func AddrType(addr ma.Multiaddr) string {
	if addr == nil {
		return "unknown"
	}

	kind := "unknown"
	ma.ForEach(addr, func(c ma.Component) bool {
		switch c.Protocol().Code {
		case ma.P_DNS, ma.P_DNS4, ma.P_DNS6, ma.P_DNSADDR:
			kind = "dns"
		case ma.P_IP4, ma.P_IP6:
			ip := net.ParseIP(c.Value())
			switch {
			case ip == nil:
			case ip.IsLoopback():
				kind = "loopback"
			case ip.IsPrivate() || ip.IsLinkLocalUnicast():
				kind = "private"
			case ip.IsGlobalUnicast():
				kind = "public"
			}
		default:
			return true
		}
		return false
	})
	return kind
}
