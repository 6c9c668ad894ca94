package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwsh/splash/config"
)

// TestApplyEnvOverrides 测试环境变量覆盖
func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SPLASH_TESTNET", "yes")
	t.Setenv("SPLASH_KNOWN_PEERS", " /ip4/1.2.3.4/tcp/4001/p2p/a , /ip4/5.6.7.8/tcp/4001/p2p/b ,")
	t.Setenv("SPLASH_LISTEN_ADDRESSES", "/ip4/127.0.0.1/tcp/0")
	t.Setenv("SPLASH_IDENTITY_FILE", "/tmp/id.key")
	t.Setenv("SPLASH_LISTEN_METRICS", "127.0.0.1:9090")

	cfg := config.NewConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, config.NetworkTestnet, cfg.Network)
	assert.Equal(t, []string{"/ip4/1.2.3.4/tcp/4001/p2p/a", "/ip4/5.6.7.8/tcp/4001/p2p/b"}, cfg.KnownPeers)
	assert.Equal(t, []string{"/ip4/127.0.0.1/tcp/0"}, cfg.ListenAddrs)
	assert.Equal(t, "/tmp/id.key", cfg.Identity.KeyFile)
	assert.Equal(t, "127.0.0.1:9090", cfg.API.MetricsAddr)
	assert.Empty(t, cfg.API.SubmissionAddr)

	t.Log("✅ 环境变量覆盖测试通过")
}

// TestLoadConfig 测试配置文件加载
func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.NetworkMainnet, cfg.Network)

	path := filepath.Join(t.TempDir(), "splash.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"network":"splash-testnet","api":{"websocket_addr":"127.0.0.1:8080"}}`), 0o600))

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.NetworkTestnet, cfg.Network)
	assert.Equal(t, "127.0.0.1:8080", cfg.API.WebsocketAddr)
	assert.Equal(t, 100, cfg.Queues.SubmissionCapacity, "未出现的字段保留默认值")

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	t.Log("✅ 配置文件加载测试通过")
}

// TestListFlag 测试可重复参数
func TestListFlag(t *testing.T) {
	var l listFlag
	require.NoError(t, l.Set("/ip4/0.0.0.0/tcp/4001"))
	require.NoError(t, l.Set("/ip6/::/tcp/4001"))

	assert.Equal(t, listFlag{"/ip4/0.0.0.0/tcp/4001", "/ip6/::/tcp/4001"}, l)
	assert.Equal(t, "/ip4/0.0.0.0/tcp/4001,/ip6/::/tcp/4001", l.String())
	assert.True(t, parseBool(" ON "))
	assert.False(t, parseBool("off"))

	t.Log("✅ 可重复参数测试通过")
}
