package kademlia

import (
	"crypto/rand"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	mh "github.com/multiformats/go-multihash"
)

// RandomPeerID 生成一个随机的 PeerID，用作随机游走查询的目标
func RandomPeerID() (peer.ID, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("kademlia: random target: %w", err)
	}
	digest, err := mh.Sum(buf, mh.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("kademlia: random target: %w", err)
	}
	return peer.ID(digest), nil
}
