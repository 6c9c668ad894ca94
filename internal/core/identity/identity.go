package identity

import (
	"crypto/rand"
	"fmt"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// Generate 生成新的 Ed25519 私钥
func Generate() (crypto.PrivKey, error) {
	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGenerateKey, err)
	}
	return priv, nil
}

// PeerID 从私钥派生 PeerID
func PeerID(key crypto.PrivKey) (peer.ID, error) {
	if key == nil {
		return "", ErrNilPrivateKey
	}
	return peer.IDFromPrivateKey(key)
}
