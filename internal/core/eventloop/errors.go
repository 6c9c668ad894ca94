package eventloop

import "errors"

var (
	// ErrAlreadyStarted 循环已启动
	ErrAlreadyStarted = errors.New("eventloop: already started")

	// ErrListen 绑定监听地址失败
	ErrListen = errors.New("eventloop: failed to listen")

	// ErrSubscribe 加入 topic 失败
	ErrSubscribe = errors.New("eventloop: failed to subscribe")
)
