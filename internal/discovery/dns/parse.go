package dns

import (
	"fmt"
	"strings"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

const (
	// DNSAddrPrefix TXT 记录内容前缀
	DNSAddrPrefix = "dnsaddr="

	// DNSAddrDomainPrefix 查询域名前缀
	DNSAddrDomainPrefix = "_dnsaddr."
)

// Record 一条解析后的 dnsaddr 记录
//
// Addr 与 Nested 二者只有一个非空。
type Record struct {
	// Addr 直接地址
	Addr ma.Multiaddr

	// Nested 嵌套的 dnsaddr 域名
	Nested string

	// NestedPeer 嵌套记录末尾携带的 /p2p 组件，用于过滤嵌套结果
	NestedPeer peer.ID
}

// ParseDNSAddr 解析形如 "dnsaddr=<multiaddr>" 的 TXT 记录
//
// 支持：
//   - dnsaddr=/ip4/<ip>/tcp/<port>/p2p/<peerID>
//   - dnsaddr=/dns4/<host>/tcp/<port>/p2p/<peerID>
//   - dnsaddr=/dnsaddr/<domain>[/p2p/<peerID>]
func ParseDNSAddr(record string) (Record, error) {
	if !strings.HasPrefix(record, DNSAddrPrefix) {
		return Record{}, ErrInvalidDNSAddr
	}

	s := strings.TrimPrefix(record, DNSAddrPrefix)
	if s == "" {
		return Record{}, ErrInvalidDNSAddr
	}

	addr, err := ma.NewMultiaddr(s)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidDNSAddr, err)
	}

	first, rest := ma.SplitFirst(addr)
	if first == nil || first.Protocol().Code != ma.P_DNSADDR {
		return Record{Addr: addr}, nil
	}

	nested := first.Value()
	if err := ValidateDomain(nested); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidDNSAddr, err)
	}

	rec := Record{Nested: nested}
	if rest != nil {
		if _, id := peer.SplitAddr(rest); id != "" {
			rec.NestedPeer = id
		}
	}
	return rec, nil
}

// normalizeDomain 规范化查询域名
func normalizeDomain(domain string) string {
	domain = strings.TrimSuffix(domain, ".")
	if !strings.HasPrefix(domain, DNSAddrDomainPrefix) {
		domain = DNSAddrDomainPrefix + domain
	}
	return domain
}

// ValidateDomain 验证域名格式
func ValidateDomain(domain string) error {
	domain = strings.TrimSuffix(strings.TrimPrefix(domain, DNSAddrDomainPrefix), ".")
	if domain == "" {
		return ErrInvalidDomain
	}
	if len(domain) > 253 {
		return fmt.Errorf("%w: domain too long", ErrInvalidDomain)
	}

	for _, label := range strings.Split(domain, ".") {
		switch {
		case label == "":
			return fmt.Errorf("%w: empty label", ErrInvalidDomain)
		case len(label) > 63:
			return fmt.Errorf("%w: label too long", ErrInvalidDomain)
		case label[len(label)-1] == '-':
			return fmt.Errorf("%w: label must not end with hyphen", ErrInvalidDomain)
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !isAlphaNum(c) && c != '-' && c != '_' {
				return fmt.Errorf("%w: invalid character in label", ErrInvalidDomain)
			}
		}
	}
	return nil
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
