package metrics

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwsh/splash/pkg/types"
)

// TestMetrics_Peers 测试连接计数
func TestMetrics_Peers(t *testing.T) {
	m := New()

	assert.Equal(t, int64(1), m.IncrementPeers())
	assert.Equal(t, int64(2), m.IncrementPeers())
	assert.Equal(t, int64(1), m.DecrementPeers())
	assert.Equal(t, int64(0), m.DecrementPeers())
	assert.Equal(t, int64(0), m.DecrementPeers(), "连接数不应为负")

	assert.Equal(t, uint64(2), m.TotalConnections())

	t.Log("✅ 连接计数测试通过")
}

// TestMetrics_Concurrent 测试并发更新
func TestMetrics_Concurrent(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncrementMessagesReceived()
				m.IncrementMessagesBroadcasted()
				m.IncrementPeers()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), m.MessagesReceived())
	assert.Equal(t, uint64(5000), m.MessagesBroadcasted())
	assert.Equal(t, int64(5000), m.Peers())

	t.Log("✅ 并发更新测试通过")
}

// TestMetrics_Observe 测试事件到指标的映射
func TestMetrics_Observe(t *testing.T) {
	m := New()

	assert.True(t, m.Observe(types.NewEvtPeerConnected("a")))
	assert.True(t, m.Observe(types.NewEvtPeerConnected("b")))
	assert.True(t, m.Observe(types.NewEvtPeerDisconnected("a")))
	assert.True(t, m.Observe(types.NewEvtMessageBroadcasted("x")))
	assert.True(t, m.Observe(types.NewEvtMessageReceived("y")))
	assert.False(t, m.Observe(types.NewEvtInitialized("local")))

	assert.Equal(t, Snapshot{
		Peers:               1,
		MessagesBroadcasted: 1,
		MessagesReceived:    1,
		TotalConnections:    2,
	}, m.Snapshot())

	t.Log("✅ Observe 测试通过")
}

// TestSnapshot_JSON 测试快照字段名
func TestSnapshot_JSON(t *testing.T) {
	m := New()
	m.IncrementPeers()

	data, err := json.Marshal(m.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"peers":1,"messages_broadcasted":0,"messages_received":0,"total_connections":1}`, string(data))

	t.Log("✅ 快照 JSON 测试通过")
}

// TestCollector 测试 prometheus 导出
func TestCollector(t *testing.T) {
	m := New()
	m.IncrementPeers()
	m.IncrementMessagesReceived()
	m.IncrementMessagesReceived()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.Collector()))

	expected := `
# HELP splash_messages_received_total Valid messages received from the network.
# TYPE splash_messages_received_total counter
splash_messages_received_total 2
# HELP splash_peers Currently open connections.
# TYPE splash_peers gauge
splash_peers 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"splash_messages_received_total", "splash_peers"))

	t.Log("✅ prometheus 导出测试通过")
}

// TestRateMeter 测试滑动窗口速率
func TestRateMeter(t *testing.T) {
	mock := clock.NewMock()
	r := NewRateMeter(mock)

	r.Add(60)
	assert.InDelta(t, 1.0, r.Rate(), 1e-9)

	mock.Add(30 * time.Second)
	r.Add(60)
	assert.InDelta(t, 2.0, r.Rate(), 1e-9)

	// 第一批移出窗口
	mock.Add(45 * time.Second)
	assert.InDelta(t, 1.0, r.Rate(), 1e-9)

	mock.Add(2 * time.Minute)
	assert.Zero(t, r.Rate())

	t.Log("✅ 速率计算测试通过")
}
