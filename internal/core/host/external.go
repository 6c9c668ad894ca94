package host

import (
	lru "github.com/hashicorp/golang-lru/v2"
	ma "github.com/multiformats/go-multiaddr"
)

// externalAddrs 已确认的外部地址集合
//
// 超过容量时淘汰最久未被确认的地址。
type externalAddrs struct {
	cache *lru.Cache[string, ma.Multiaddr]
}

func newExternalAddrs(size int) (*externalAddrs, error) {
	cache, err := lru.New[string, ma.Multiaddr](size)
	if err != nil {
		return nil, err
	}
	return &externalAddrs{cache: cache}, nil
}

// Add 登记地址，返回是否为新地址
func (e *externalAddrs) Add(addr ma.Multiaddr) bool {
	key := string(addr.Bytes())
	if e.cache.Contains(key) {
		e.cache.Get(key)
		return false
	}
	e.cache.Add(key, addr)
	return true
}

// Contains 是否已登记
func (e *externalAddrs) Contains(addr ma.Multiaddr) bool {
	return e.cache.Contains(string(addr.Bytes()))
}

// Addrs 返回全部已登记地址
func (e *externalAddrs) Addrs() []ma.Multiaddr {
	return e.cache.Values()
}

// factory 作为 libp2p 地址工厂，在本地地址后追加外部地址
func (e *externalAddrs) factory(addrs []ma.Multiaddr) []ma.Multiaddr {
	out := make([]ma.Multiaddr, 0, len(addrs)+e.cache.Len())
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]ma.Multiaddr{addrs, e.Addrs()} {
		for _, a := range list {
			key := string(a.Bytes())
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
