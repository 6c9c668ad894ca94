package host

import (
	"time"

	"github.com/mpwsh/splash/config"
)

// Config 传输层配置
type Config struct {
	// LowWater/HighWater 连接管理水位
	LowWater  int
	HighWater int

	// GracePeriod 新连接保护期
	GracePeriod time.Duration

	// MaxExternalAddrs 外部地址集合容量
	MaxExternalAddrs int

	// EventBuffer 事件通道缓冲
	EventBuffer int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	cm := config.DefaultConnManagerConfig()
	return Config{
		LowWater:         cm.LowWater,
		HighWater:        cm.HighWater,
		GracePeriod:      cm.GracePeriod.Duration(),
		MaxExternalAddrs: 16,
		EventBuffer:      64,
	}
}

// ConfigFromUnified 从统一配置创建传输层配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.LowWater = cfg.ConnMgr.LowWater
	c.HighWater = cfg.ConnMgr.HighWater
	c.GracePeriod = cfg.ConnMgr.GracePeriod.Duration()
	return c
}
