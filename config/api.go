package config

import "time"

// APIConfig 外围服务配置
//
// 各地址为空表示不启动对应服务。
type APIConfig struct {
	// SubmissionAddr 消息提交 HTTP 服务监听地址（host:port）
	SubmissionAddr string `json:"submission_addr,omitempty"`

	// MetricsAddr 指标 HTTP 服务监听地址
	MetricsAddr string `json:"metrics_addr,omitempty"`

	// WebsocketAddr WebSocket 转发服务监听地址
	WebsocketAddr string `json:"websocket_addr,omitempty"`

	// MessageHook 收到消息时 POST 的 URL，为空时打印到标准输出
	MessageHook string `json:"message_hook,omitempty"`

	// SubmissionRate 每秒允许的提交请求数，0 表示不限制
	SubmissionRate float64 `json:"submission_rate,omitempty"`

	// SubmissionBurst 提交请求突发量
	SubmissionBurst int `json:"submission_burst,omitempty"`

	// HookTimeout 消息钩子请求超时
	HookTimeout Duration `json:"hook_timeout"`

	// BatchInterval WebSocket 批量发送间隔
	BatchInterval Duration `json:"batch_interval"`
}

// DefaultAPIConfig 返回默认外围服务配置
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		SubmissionBurst: 10,
		HookTimeout:     Duration(10 * time.Second),
		BatchInterval:   Duration(300 * time.Millisecond),
	}
}

// Validate 验证外围服务配置
func (c APIConfig) Validate() error {
	if c.SubmissionRate < 0 {
		return invalid("submission rate must not be negative")
	}
	if c.SubmissionRate > 0 && c.SubmissionBurst <= 0 {
		return invalid("submission burst must be positive when rate is set")
	}
	if c.HookTimeout <= 0 {
		return invalid("hook timeout must be positive")
	}
	if c.BatchInterval <= 0 {
		return invalid("batch interval must be positive")
	}
	return nil
}
