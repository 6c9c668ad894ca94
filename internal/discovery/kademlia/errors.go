package kademlia

import "errors"

var (
	// ErrMissingPeerID 引导地址缺少 /p2p/<PeerID>
	ErrMissingPeerID = errors.New("kademlia: bootstrap address lacks peer id")

	// ErrEngine 创建 DHT 失败
	ErrEngine = errors.New("kademlia: failed to create dht")
)
