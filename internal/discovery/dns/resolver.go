package dns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("discovery/dns")

// fallbackServer resolv.conf 不可用时使用的 DNS 服务器
const fallbackServer = "1.1.1.1:53"

// Resolver 将命名空间解析为引导地址
type Resolver interface {
	Resolve(ctx context.Context, network config.Network) ([]ma.Multiaddr, error)
}

// ResolverFunc 函数形式的 Resolver
type ResolverFunc func(ctx context.Context, network config.Network) ([]ma.Multiaddr, error)

// Resolve 实现 Resolver
func (f ResolverFunc) Resolve(ctx context.Context, network config.Network) ([]ma.Multiaddr, error) {
	return f(ctx, network)
}

// ============================================================================
//                              TXTResolver
// ============================================================================

// TXTResolver 通过 dnsaddr TXT 记录解析引导地址
type TXTResolver struct {
	cfg    config.DNSConfig
	client *mdns.Client
	server string
}

var _ Resolver = (*TXTResolver)(nil)

// NewTXTResolver 创建 TXT 解析器
func NewTXTResolver(cfg config.DNSConfig) *TXTResolver {
	return &TXTResolver{
		cfg:    cfg,
		client: &mdns.Client{Net: "udp", Timeout: cfg.Timeout.Duration()},
		server: cfg.Server,
	}
}

// Resolve 查询命名空间对应的种子域名
func (r *TXTResolver) Resolve(ctx context.Context, network config.Network) ([]ma.Multiaddr, error) {
	domain, ok := r.cfg.DomainFor(network)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	log.Info("正在解析 DNS 种子", "network", network, "domain", domain)
	start := time.Now()

	addrs, err := r.ResolveDomain(ctx, domain)
	if err != nil {
		log.Warn("DNS 种子解析失败", "domain", domain, "err", err)
		return nil, err
	}

	log.Info("DNS 种子解析完成", "domain", domain, "addrs", len(addrs), "elapsed", time.Since(start))
	return addrs, nil
}

// ResolveDomain 递归解析 _dnsaddr.<domain>
func (r *TXTResolver) ResolveDomain(ctx context.Context, domain string) ([]ma.Multiaddr, error) {
	var out []ma.Multiaddr
	seen := make(map[string]struct{})
	if err := r.resolve(ctx, domain, r.cfg.MaxDepth, "", &out, seen); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TXTResolver) resolve(ctx context.Context, domain string, depth int, only string, out *[]ma.Multiaddr, seen map[string]struct{}) error {
	if depth <= 0 {
		return ErrMaxDepthExceeded
	}
	if err := ValidateDomain(domain); err != nil {
		return err
	}

	records, err := r.lookupTXT(ctx, normalizeDomain(domain))
	if err != nil {
		return fmt.Errorf("resolve TXT records for %s: %w", domain, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRecordsFound, domain)
	}

	for _, txt := range records {
		rec, err := ParseDNSAddr(txt)
		if err != nil {
			log.Debug("跳过无法解析的 dnsaddr 记录", "record", txt, "err", err)
			continue
		}

		if rec.Nested != "" {
			filter := only
			if rec.NestedPeer != "" {
				filter = rec.NestedPeer.String()
			}
			if err := r.resolve(ctx, rec.Nested, depth-1, filter, out, seen); err != nil {
				log.Debug("嵌套 dnsaddr 解析失败", "domain", rec.Nested, "err", err)
			}
			continue
		}

		if only != "" && !strings.HasSuffix(rec.Addr.String(), "/p2p/"+only) {
			continue
		}
		key := rec.Addr.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		*out = append(*out, rec.Addr)
	}
	return nil
}

// lookupTXT 查询 TXT 记录，截断时改用 TCP 重发
func (r *TXTResolver) lookupTXT(ctx context.Context, name string) ([]string, error) {
	server := r.resolveServer()

	m := new(mdns.Msg)
	m.SetQuestion(mdns.Fqdn(name), mdns.TypeTXT)
	m.RecursionDesired = true

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout.Duration())
	defer cancel()

	resp, _, err := r.client.ExchangeContext(ctx, m, server)
	if err == nil && resp.Truncated {
		tcp := &mdns.Client{Net: "tcp", Timeout: r.cfg.Timeout.Duration()}
		resp, _, err = tcp.ExchangeContext(ctx, m, server)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	switch resp.Rcode {
	case mdns.RcodeSuccess:
	case mdns.RcodeNameError:
		return nil, ErrNoRecordsFound
	default:
		return nil, fmt.Errorf("%w: rcode %s", ErrQueryFailed, mdns.RcodeToString[resp.Rcode])
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	return records, nil
}

func (r *TXTResolver) resolveServer() string {
	if r.server != "" {
		return r.server
	}
	cc, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cc.Servers) == 0 {
		log.Debug("无法读取 resolv.conf，使用备用 DNS 服务器", "server", fallbackServer)
		r.server = fallbackServer
		return r.server
	}
	r.server = net.JoinHostPort(cc.Servers[0], cc.Port)
	return r.server
}
