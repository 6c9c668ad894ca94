package message

import "errors"

var (
	// ErrMessageTooLarge 负载超过 MaxSize
	ErrMessageTooLarge = errors.New("message: message too large")

	// ErrInvalidMessageFormat 负载格式无效
	//
	// 当前没有任何规则产生该错误。
	ErrInvalidMessageFormat = errors.New("message: invalid message format")
)
