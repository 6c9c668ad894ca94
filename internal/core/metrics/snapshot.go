package metrics

// Snapshot 指标快照
type Snapshot struct {
	Peers               int64  `json:"peers"`
	MessagesBroadcasted uint64 `json:"messages_broadcasted"`
	MessagesReceived    uint64 `json:"messages_received"`
	TotalConnections    uint64 `json:"total_connections"`
}

// Snapshot 返回当前指标快照
//
// 各字段分别读取，彼此之间不保证同一时刻。
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Peers:               m.Peers(),
		MessagesBroadcasted: m.MessagesBroadcasted(),
		MessagesReceived:    m.MessagesReceived(),
		TotalConnections:    m.TotalConnections(),
	}
}
