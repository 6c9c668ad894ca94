package identity

import "errors"

var (
	// ErrNilPrivateKey 私钥为 nil
	ErrNilPrivateKey = errors.New("identity: private key is nil")

	// ErrKeyNotFound 密钥文件不存在
	ErrKeyNotFound = errors.New("identity: key file not found")

	// ErrInvalidKeyFile 密钥文件内容无法解码
	ErrInvalidKeyFile = errors.New("identity: invalid key file")

	// ErrFailedToGenerateKey 密钥生成失败
	ErrFailedToGenerateKey = errors.New("identity: failed to generate key")
)
