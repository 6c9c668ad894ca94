package host

import "errors"

var (
	// ErrInvalidConfig 传输层配置无效
	ErrInvalidConfig = errors.New("host: invalid config")

	// ErrTransport 构造 libp2p Host 失败
	ErrTransport = errors.New("host: failed to construct transport")

	// ErrListen 绑定监听地址失败
	ErrListen = errors.New("host: failed to listen")
)
