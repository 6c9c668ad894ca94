package dns

import (
	"context"
	"crypto/rand"
	"net"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	mdns "github.com/miekg/dns"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwsh/splash/config"
)

func testPeerID(t *testing.T) peer.ID {
	t.Helper()
	_, pub, err := crypto.GenerateEd25519Key(rand.Reader)
	require.NoError(t, err)
	id, err := peer.IDFromPublicKey(pub)
	require.NoError(t, err)
	return id
}

// startTestServer 启动一个只应答 TXT 查询的进程内 DNS 服务器
func startTestServer(t *testing.T, zone map[string][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := mdns.HandlerFunc(func(w mdns.ResponseWriter, req *mdns.Msg) {
		resp := new(mdns.Msg)
		resp.SetReply(req)

		name := req.Question[0].Name
		records, ok := zone[name]
		if !ok {
			resp.Rcode = mdns.RcodeNameError
		}
		for _, r := range records {
			resp.Answer = append(resp.Answer, &mdns.TXT{
				Hdr: mdns.RR_Header{Name: name, Rrtype: mdns.TypeTXT, Class: mdns.ClassINET, Ttl: 60},
				Txt: []string{r},
			})
		}
		_ = w.WriteMsg(resp)
	})

	started := make(chan struct{})
	srv := &mdns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("dns server did not start")
	}
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func testConfig(server string) config.DNSConfig {
	cfg := config.DefaultDNSConfig()
	cfg.Server = server
	cfg.Timeout = config.Duration(2 * time.Second)
	return cfg
}

// TestParseDNSAddr 测试 dnsaddr 记录解析
func TestParseDNSAddr(t *testing.T) {
	id := testPeerID(t)

	t.Run("Direct", func(t *testing.T) {
		rec, err := ParseDNSAddr("dnsaddr=/ip4/1.2.3.4/tcp/4001/p2p/" + id.String())
		require.NoError(t, err)
		require.NotNil(t, rec.Addr)
		assert.Empty(t, rec.Nested)
	})

	t.Run("Nested", func(t *testing.T) {
		rec, err := ParseDNSAddr("dnsaddr=/dnsaddr/eu.splash.example.org")
		require.NoError(t, err)
		assert.Nil(t, rec.Addr)
		assert.Equal(t, "eu.splash.example.org", rec.Nested)
	})

	t.Run("NestedWithPeer", func(t *testing.T) {
		rec, err := ParseDNSAddr("dnsaddr=/dnsaddr/eu.splash.example.org/p2p/" + id.String())
		require.NoError(t, err)
		assert.Equal(t, id, rec.NestedPeer)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "dnsaddr=", "v=spf1 -all", "dnsaddr=garbage"} {
			_, err := ParseDNSAddr(s)
			assert.ErrorIs(t, err, ErrInvalidDNSAddr, s)
		}
	})
}

// TestValidateDomain 测试域名校验
func TestValidateDomain(t *testing.T) {
	assert.NoError(t, ValidateDomain("splash.dexie.space"))
	assert.NoError(t, ValidateDomain("_dnsaddr.splash.dexie.space."))

	assert.ErrorIs(t, ValidateDomain(""), ErrInvalidDomain)
	assert.ErrorIs(t, ValidateDomain("a..b"), ErrInvalidDomain)
	assert.ErrorIs(t, ValidateDomain("bad-.example"), ErrInvalidDomain)
	assert.ErrorIs(t, ValidateDomain("sp ace.example"), ErrInvalidDomain)
}

// TestTXTResolver_Resolve 测试解析并递归嵌套记录
func TestTXTResolver_Resolve(t *testing.T) {
	a, b := testPeerID(t), testPeerID(t)

	server := startTestServer(t, map[string][]string{
		"_dnsaddr.splash-testnet.dexie.space.": {
			"dnsaddr=/ip4/1.2.3.4/tcp/4001/p2p/" + a.String(),
			"dnsaddr=/dnsaddr/eu.splash-testnet.dexie.space",
			"not a dnsaddr record",
		},
		"_dnsaddr.eu.splash-testnet.dexie.space.": {
			"dnsaddr=/ip4/5.6.7.8/tcp/4001/p2p/" + b.String(),
			"dnsaddr=/ip4/1.2.3.4/tcp/4001/p2p/" + a.String(),
		},
	})

	r := NewTXTResolver(testConfig(server))
	addrs, err := r.Resolve(context.Background(), config.NetworkTestnet)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "/ip4/1.2.3.4/tcp/4001/p2p/"+a.String(), addrs[0].String())
	assert.Equal(t, "/ip4/5.6.7.8/tcp/4001/p2p/"+b.String(), addrs[1].String())
}

// TestTXTResolver_NoRecords 测试域名不存在
func TestTXTResolver_NoRecords(t *testing.T) {
	server := startTestServer(t, map[string][]string{})

	r := NewTXTResolver(testConfig(server))
	_, err := r.Resolve(context.Background(), config.NetworkMainnet)
	assert.ErrorIs(t, err, ErrNoRecordsFound)
}

// TestTXTResolver_UnknownNetwork 测试没有配置种子域名
func TestTXTResolver_UnknownNetwork(t *testing.T) {
	cfg := testConfig("127.0.0.1:1")
	cfg.Domains = nil

	_, err := NewTXTResolver(cfg).Resolve(context.Background(), config.NetworkMainnet)
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

// TestResolverFunc 测试函数适配器
func TestResolverFunc(t *testing.T) {
	var got config.Network
	r := ResolverFunc(func(_ context.Context, n config.Network) ([]ma.Multiaddr, error) {
		got = n
		return nil, nil
	})

	_, err := r.Resolve(context.Background(), config.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, config.NetworkTestnet, got)
}
