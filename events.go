package splash

import "github.com/mpwsh/splash/pkg/types"

// 节点事件，定义见 pkg/types
type (
	// Event 节点事件接口
	Event = types.Event

	// EvtInitialized 节点完成启动
	EvtInitialized = types.EvtInitialized

	// EvtNewListenAddress 新的本地监听地址
	EvtNewListenAddress = types.EvtNewListenAddress

	// EvtPeerConnected 与对端建立了一条连接
	EvtPeerConnected = types.EvtPeerConnected

	// EvtPeerDisconnected 与对端的一条连接关闭
	EvtPeerDisconnected = types.EvtPeerDisconnected

	// EvtMessageBroadcasted 本地消息已发布
	EvtMessageBroadcasted = types.EvtMessageBroadcasted

	// EvtMessageBroadcastFailed 本地消息发布失败
	EvtMessageBroadcastFailed = types.EvtMessageBroadcastFailed

	// EvtMessageReceived 收到通过校验的远端消息
	EvtMessageReceived = types.EvtMessageReceived
)
