// Package kademlia 基于 go-libp2p-kad-dht 的 DHT 引擎
//
// 引擎在构造时用全部引导地址播种路由表，随后立即触发一轮引导。
// 引导地址必须以 /p2p/<PeerID> 结尾，否则构造失败。
//
// 路由表地址簿记录每个对端被接纳的地址（去掉 /p2p 组件），
// 同时写入 libp2p peerstore 并把对端提交给 kad 路由表。地址不主动过期。
//
// GetClosestPeers 异步执行，每次查询单独计时，结果以
// behaviour.KademliaQueryResult 事件返回。
package kademlia
