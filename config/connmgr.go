package config

import "time"

// ConnManagerConfig 连接管理配置
type ConnManagerConfig struct {
	// LowWater 低水位，裁剪后保留的连接数
	LowWater int `json:"low_water"`

	// HighWater 高水位，超过后开始裁剪
	HighWater int `json:"high_water"`

	// GracePeriod 新连接保护期，也是空闲连接的最短保留时间
	GracePeriod Duration `json:"grace_period"`
}

// DefaultConnManagerConfig 返回默认连接管理配置
func DefaultConnManagerConfig() ConnManagerConfig {
	return ConnManagerConfig{
		LowWater:    32,
		HighWater:   128,
		GracePeriod: Duration(60 * time.Second),
	}
}

// Validate 验证连接管理配置
func (c ConnManagerConfig) Validate() error {
	if c.LowWater < 0 || c.HighWater <= 0 {
		return invalid("conn manager water marks must be positive")
	}
	if c.LowWater > c.HighWater {
		return invalid("conn manager low water %d exceeds high water %d", c.LowWater, c.HighWater)
	}
	if c.GracePeriod < 0 {
		return invalid("conn manager grace period must not be negative")
	}
	return nil
}
