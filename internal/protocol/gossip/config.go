package gossip

import (
	"time"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/protocol/message"
)

// Config gossip 引擎配置
type Config struct {
	// HeartbeatInterval 心跳间隔
	HeartbeatInterval time.Duration

	// MaxTransmitSize 最大传输大小
	MaxTransmitSize int

	// DuplicateTTL 已发布/已接受消息 ID 的记忆时长
	DuplicateTTL time.Duration

	// DuplicateCacheSize 消息 ID 记忆容量
	DuplicateCacheSize int

	// RequirePeers 发布时要求至少有一个订阅该 topic 的对端
	RequirePeers bool

	// EventBuffer 事件通道缓冲
	EventBuffer int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval:  5 * time.Second,
		MaxTransmitSize:    message.MaxSize,
		DuplicateTTL:       2 * time.Minute,
		DuplicateCacheSize: 4096,
		RequirePeers:       true,
		EventBuffer:        32,
	}
}

// ConfigFromUnified 从统一配置创建 gossip 配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.HeartbeatInterval = cfg.Gossip.HeartbeatInterval.Duration()
	c.MaxTransmitSize = cfg.Gossip.MaxTransmitSize
	return c
}
