package kademlia

import (
	"context"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p"
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/util/addrutil"
)

func newLibp2pHost(t *testing.T) p2phost.Host {
	t.Helper()
	h, err := libp2p.New(libp2p.ListenAddrStrings("/ip4/127.0.0.1/tcp/0"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func fullAddr(t *testing.T, h p2phost.Host) ma.Multiaddr {
	t.Helper()
	require.NotEmpty(t, h.Addrs())
	addr, err := addrutil.BuildFullAddr(h.Addrs()[0], h.ID())
	require.NoError(t, err)
	return addr
}

func newTestEngine(t *testing.T, h p2phost.Host, seeds ...ma.Multiaddr) *Engine {
	t.Helper()
	e, err := New(h, ConfigFromUnified(config.NewConfig()), seeds)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// TestConfigFromUnified 测试协议标识随网络变化
func TestConfigFromUnified(t *testing.T) {
	cfg := ConfigFromUnified(nil)
	assert.Equal(t, "/splash/kad/1", string(cfg.Protocol))
	assert.Equal(t, 60*time.Second, cfg.QueryTimeout)

	testnet := config.NewConfig()
	testnet.Network = config.NetworkTestnet
	assert.Equal(t, "/splash-testnet/kad/1", string(ConfigFromUnified(testnet).Protocol))

	t.Log("✅ ConfigFromUnified 测试通过")
}

// TestConfig_AddressFilter 测试 DHT 地址过滤丢弃非全局地址
func TestConfig_AddressFilter(t *testing.T) {
	cfg := ConfigFromUnified(nil)
	require.NotNil(t, cfg.AddressFilter)

	public := ma.StringCast("/ip4/8.8.8.8/tcp/4001")
	in := []ma.Multiaddr{
		ma.StringCast("/ip4/192.168.1.10/tcp/4001"),
		public,
		ma.StringCast("/ip4/127.0.0.1/tcp/4001"),
		ma.StringCast("/ip6/::1/tcp/4001"),
		ma.StringCast("/ip4/10.0.0.1/tcp/4001"),
	}
	out := cfg.AddressFilter(in)
	require.Len(t, out, 1)
	assert.True(t, public.Equal(out[0]))

	// 带过滤器的引擎仍接受回环引导地址
	seed := newLibp2pHost(t)
	e := newTestEngine(t, newLibp2pHost(t), fullAddr(t, seed))
	assert.Len(t, e.Addresses(seed.ID()), 1)

	t.Log("✅ DHT 地址过滤测试通过")
}

// TestNew_SeedWithoutPeerID 测试缺少 /p2p 的引导地址导致构造失败
func TestNew_SeedWithoutPeerID(t *testing.T) {
	h := newLibp2pHost(t)

	_, err := New(h, ConfigFromUnified(nil), []ma.Multiaddr{ma.StringCast("/ip4/1.2.3.4/tcp/4001")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPeerID)

	t.Log("✅ 缺少 PeerID 的引导地址测试通过")
}

// TestParseSeeds 测试同一对端的多个地址合并
func TestParseSeeds(t *testing.T) {
	other := newLibp2pHost(t)

	a, err := addrutil.BuildFullAddr(ma.StringCast("/ip4/1.2.3.4/tcp/1"), other.ID())
	require.NoError(t, err)
	b, err := addrutil.BuildFullAddr(ma.StringCast("/ip4/5.6.7.8/tcp/2"), other.ID())
	require.NoError(t, err)

	infos, err := ParseSeeds([]ma.Multiaddr{a, b})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, other.ID(), infos[0].ID)
	assert.Len(t, infos[0].Addrs, 2)

	t.Log("✅ ParseSeeds 测试通过")
}

// TestEngine_SeedsRoutingTable 测试引导地址写入地址簿
func TestEngine_SeedsRoutingTable(t *testing.T) {
	h := newLibp2pHost(t)
	seed := newLibp2pHost(t)

	e := newTestEngine(t, h, fullAddr(t, seed))

	assert.Contains(t, e.Peers(), seed.ID())
	addrs := e.Addresses(seed.ID())
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].Equal(seed.Addrs()[0]), "地址簿应保存去掉 /p2p 的传输地址")
	assert.NotEmpty(t, h.Peerstore().Addrs(seed.ID()))

	t.Log("✅ 引导地址播种测试通过")
}

// TestEngine_AddAddress 测试地址登记规则
func TestEngine_AddAddress(t *testing.T) {
	h := newLibp2pHost(t)
	e := newTestEngine(t, h)
	other := newLibp2pHost(t)

	// 自身地址忽略
	e.AddAddress(h.ID(), h.Addrs()[0])
	assert.Empty(t, e.Peers())

	// 重复登记只保留一份
	addr := ma.StringCast("/ip4/8.8.8.8/tcp/4001")
	e.AddAddress(other.ID(), addr)
	e.AddAddress(other.ID(), addr)
	assert.Len(t, e.Addresses(other.ID()), 1)

	// PeerID 不一致的完整地址忽略
	third := newLibp2pHost(t)
	mismatched, err := addrutil.BuildFullAddr(ma.StringCast("/ip4/9.9.9.9/tcp/1"), third.ID())
	require.NoError(t, err)
	e.AddAddress(other.ID(), mismatched)
	assert.Len(t, e.Addresses(other.ID()), 1)

	t.Log("✅ AddAddress 测试通过")
}

// TestEngine_Bootstrap 测试引导事件
func TestEngine_Bootstrap(t *testing.T) {
	h := newLibp2pHost(t)
	e := newTestEngine(t, h)

	_ = e.Bootstrap(context.Background())

	select {
	case evt := <-e.Events():
		_, ok := evt.(behaviour.KademliaBootstrapped)
		assert.True(t, ok)
		assert.Equal(t, behaviour.OriginKademlia, evt.Origin())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for bootstrap event")
	}

	t.Log("✅ Bootstrap 测试通过")
}

// TestEngine_GetClosestPeers 测试查询结果以事件返回
func TestEngine_GetClosestPeers(t *testing.T) {
	seed := newLibp2pHost(t)
	_ = newTestEngine(t, seed)

	h := newLibp2pHost(t)
	e := newTestEngine(t, h, fullAddr(t, seed))

	target, err := RandomPeerID()
	require.NoError(t, err)
	e.GetClosestPeers(target)

	deadline := time.After(30 * time.Second)
	for {
		select {
		case evt := <-e.Events():
			res, ok := evt.(behaviour.KademliaQueryResult)
			if !ok {
				continue
			}
			assert.Equal(t, target, res.Target)
			if res.Err == nil {
				assert.Contains(t, res.Peers, seed.ID())
			}
			t.Log("✅ GetClosestPeers 测试通过")
			return
		case <-deadline:
			t.Fatal("timed out waiting for query result")
		}
	}
}

// TestEngine_CloseStopsQueries 测试关闭后不再发起查询
func TestEngine_CloseStopsQueries(t *testing.T) {
	h := newLibp2pHost(t)
	e, err := New(h, ConfigFromUnified(nil), nil)
	require.NoError(t, err)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	e.GetClosestPeers(peer.ID("target"))
	select {
	case evt := <-e.Events():
		t.Fatalf("unexpected event after close: %T", evt)
	case <-time.After(100 * time.Millisecond):
	}

	t.Log("✅ 关闭测试通过")
}

// TestRandomPeerID 测试随机目标互不相同
func TestRandomPeerID(t *testing.T) {
	a, err := RandomPeerID()
	require.NoError(t, err)
	b, err := RandomPeerID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NoError(t, a.Validate())

	t.Log("✅ RandomPeerID 测试通过")
}
