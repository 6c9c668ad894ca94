package splash

import (
	"errors"
	"fmt"

	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/core/eventloop"
	"github.com/mpwsh/splash/internal/core/host"
	"github.com/mpwsh/splash/internal/discovery/kademlia"
	"github.com/mpwsh/splash/internal/protocol/message"
	"github.com/mpwsh/splash/internal/util/addrutil"
)

// 运行期错误
var (
	// ErrMessageTooLarge 消息超过 300 KiB
	ErrMessageTooLarge = message.ErrMessageTooLarge

	// ErrInvalidMessageFormat 消息格式无效（保留，当前没有规则触发）
	ErrInvalidMessageFormat = message.ErrInvalidMessageFormat

	// ErrSendFailed 节点已关闭，消息无法入队
	ErrSendFailed = errors.New("splash: failed to enqueue message")

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = errors.New("splash: node closed")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("splash: node already started")
)

// 启动错误
//
// New 与 Start 返回的错误都包装且只包装其中之一，可用 errors.Is 判断。
var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = config.ErrInvalidConfig

	// ErrInvalidListenAddr 监听地址无法解析
	ErrInvalidListenAddr = errors.New("splash: invalid listen address")

	// ErrMissingPeerID 引导地址缺少 /p2p/<PeerID>
	ErrMissingPeerID = errors.New("splash: bootstrap address lacks peer id")

	// ErrDNSResolution DNS 种子解析失败
	ErrDNSResolution = errors.New("splash: dns seed resolution failed")

	// ErrNoBootstrapPeers 没有可用的引导节点
	ErrNoBootstrapPeers = errors.New("splash: no bootstrap peers")

	// ErrTransport 传输层构造或监听失败
	ErrTransport = errors.New("splash: transport setup failed")

	// ErrEngine 协议引擎构造失败
	ErrEngine = errors.New("splash: protocol engine setup failed")
)

// startupKinds 启动错误集合，按判断顺序排列
var startupKinds = []error{
	ErrInvalidConfig,
	ErrInvalidListenAddr,
	ErrMissingPeerID,
	ErrDNSResolution,
	ErrNoBootstrapPeers,
	ErrTransport,
	ErrEngine,
}

// startupError 把内部错误归入启动错误集合，保留原始错误链
func startupError(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range startupKinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	var kind error
	switch {
	case errors.Is(err, kademlia.ErrMissingPeerID), errors.Is(err, addrutil.ErrMissingPeerID):
		kind = ErrMissingPeerID
	case errors.Is(err, host.ErrTransport), errors.Is(err, host.ErrListen), errors.Is(err, eventloop.ErrListen):
		kind = ErrTransport
	case errors.Is(err, host.ErrInvalidConfig):
		kind = ErrInvalidConfig
	default:
		kind = ErrEngine
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// IsStartupError 判断 err 是否属于启动错误集合
func IsStartupError(err error) bool {
	for _, kind := range startupKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
