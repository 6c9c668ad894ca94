package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splash"

// collector 把 Metrics 导出给 prometheus
type collector struct {
	m *Metrics

	peers               *prometheus.Desc
	messagesBroadcasted *prometheus.Desc
	messagesReceived    *prometheus.Desc
	totalConnections    *prometheus.Desc
	receivedRate        *prometheus.Desc
}

// Collector 返回基于当前指标的 prometheus Collector
func (m *Metrics) Collector() prometheus.Collector {
	return &collector{
		m:                   m,
		peers:               prometheus.NewDesc(namespace+"_peers", "Currently open connections.", nil, nil),
		messagesBroadcasted: prometheus.NewDesc(namespace+"_messages_broadcasted_total", "Messages published by this node.", nil, nil),
		messagesReceived:    prometheus.NewDesc(namespace+"_messages_received_total", "Valid messages received from the network.", nil, nil),
		totalConnections:    prometheus.NewDesc(namespace+"_connections_total", "Connections established since start.", nil, nil),
		receivedRate:        prometheus.NewDesc(namespace+"_messages_received_rate", "Messages received per second over the last minute.", nil, nil),
	}
}

// Describe 实现 prometheus.Collector
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.peers
	ch <- c.messagesBroadcasted
	ch <- c.messagesReceived
	ch <- c.totalConnections
	ch <- c.receivedRate
}

// Collect 实现 prometheus.Collector
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.peers, prometheus.GaugeValue, float64(c.m.Peers()))
	ch <- prometheus.MustNewConstMetric(c.messagesBroadcasted, prometheus.CounterValue, float64(c.m.MessagesBroadcasted()))
	ch <- prometheus.MustNewConstMetric(c.messagesReceived, prometheus.CounterValue, float64(c.m.MessagesReceived()))
	ch <- prometheus.MustNewConstMetric(c.totalConnections, prometheus.CounterValue, float64(c.m.TotalConnections()))
	ch <- prometheus.MustNewConstMetric(c.receivedRate, prometheus.GaugeValue, c.m.ReceivedRate())
}
