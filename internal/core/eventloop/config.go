package eventloop

import (
	"time"

	ma "github.com/multiformats/go-multiaddr"
)

// Config 事件循环配置
//
// 由节点在构建 Fx 应用时填充，监听地址已在节点创建时解析。
type Config struct {
	// Topic 消息 topic
	Topic string

	// ListenAddrs 启动时绑定的监听地址
	ListenAddrs []ma.Multiaddr

	// DiscoveryInterval 随机游走查询间隔
	DiscoveryInterval time.Duration
}
