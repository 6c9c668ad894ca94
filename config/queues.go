package config

// QueueConfig 提交队列与事件通道容量
type QueueConfig struct {
	// SubmissionCapacity 待广播消息队列容量，满时 Broadcast 阻塞
	SubmissionCapacity int `json:"submission_capacity"`

	// EventCapacity 节点事件通道容量，满时事件循环阻塞
	EventCapacity int `json:"event_capacity"`
}

// DefaultQueueConfig 返回默认队列配置
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		SubmissionCapacity: 100,
		EventCapacity:      100,
	}
}

// Validate 验证队列配置
func (c QueueConfig) Validate() error {
	if c.SubmissionCapacity <= 0 || c.EventCapacity <= 0 {
		return invalid("queue capacities must be positive")
	}
	return nil
}
