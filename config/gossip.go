package config

import "time"

// GossipConfig gossip 配置
type GossipConfig struct {
	// HeartbeatInterval gossipsub 心跳间隔
	HeartbeatInterval Duration `json:"heartbeat_interval"`

	// MaxTransmitSize 单条 gossip 消息的最大字节数
	MaxTransmitSize int `json:"max_transmit_size"`
}

// DefaultGossipConfig 返回默认 gossip 配置
func DefaultGossipConfig() GossipConfig {
	return GossipConfig{
		HeartbeatInterval: Duration(5 * time.Second),
		MaxTransmitSize:   300 * 1024,
	}
}

// Validate 验证 gossip 配置
func (c GossipConfig) Validate() error {
	if c.HeartbeatInterval <= 0 {
		return invalid("gossip heartbeat interval must be positive")
	}
	if c.MaxTransmitSize <= 0 {
		return invalid("gossip max transmit size must be positive")
	}
	return nil
}

// WithHeartbeatInterval 设置心跳间隔
func (c GossipConfig) WithHeartbeatInterval(d time.Duration) GossipConfig {
	c.HeartbeatInterval = Duration(d)
	return c
}
