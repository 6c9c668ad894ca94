package main

import (
	"os"
	"strings"

	"github.com/mpwsh/splash/config"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// 环境变量名（均使用 SPLASH_ 前缀）
const (
	envPrefix                  = "SPLASH_"
	envTestnet                 = "TESTNET"
	envKnownPeers              = "KNOWN_PEERS"
	envListenAddresses         = "LISTEN_ADDRESSES"
	envIdentityFile            = "IDENTITY_FILE"
	envMessageHook             = "MESSAGE_HOOK"
	envListenMessageSubmission = "LISTEN_MESSAGE_SUBMISSION"
	envListenMetrics           = "LISTEN_METRICS"
	envListenWebsocket         = "LISTEN_WEBSOCKET"
)

// loadConfig 加载配置文件，未指定时返回默认配置
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig(), nil
	}
	return config.LoadFile(path)
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
// 列表类变量使用逗号分隔。
func applyEnvOverrides(cfg *config.Config) {
	if v := getenv(envTestnet); v != "" {
		cfg.Network = config.NetworkFor(parseBool(v))
	}
	if v := getenv(envKnownPeers); v != "" {
		cfg.KnownPeers = splitAndTrim(v, ",")
	}
	if v := getenv(envListenAddresses); v != "" {
		cfg.ListenAddrs = splitAndTrim(v, ",")
	}
	if v := getenv(envIdentityFile); v != "" {
		cfg.Identity.KeyFile = v
	}
	if v := getenv(envMessageHook); v != "" {
		cfg.API.MessageHook = v
	}
	if v := getenv(envListenMessageSubmission); v != "" {
		cfg.API.SubmissionAddr = v
	}
	if v := getenv(envListenMetrics); v != "" {
		cfg.API.MetricsAddr = v
	}
	if v := getenv(envListenWebsocket); v != "" {
		cfg.API.WebsocketAddr = v
	}
}

func getenv(name string) string {
	return os.Getenv(envPrefix + name)
}

// ============================================================================
//                              辅助函数
// ============================================================================

// listFlag 可重复的字符串参数
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// parseBool 解析布尔值字符串
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
