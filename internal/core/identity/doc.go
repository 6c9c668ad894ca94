// Package identity 节点身份密钥
//
// 节点身份是一把 libp2p 私钥，默认每次启动生成新的 Ed25519 密钥。
// 指定密钥文件时优先从文件加载，失败则生成新密钥并尽力写回。
//
// 密钥文件采用 libp2p protobuf 编码（crypto.MarshalPrivateKey），
// 写入使用临时文件 + rename，权限 0600。
package identity
