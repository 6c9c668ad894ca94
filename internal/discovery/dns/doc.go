// Package dns 实现 DNS 种子解析
//
// 未配置引导节点时，节点通过 DNS TXT 记录获取初始地址：
//
//	_dnsaddr.splash.dexie.space.  300  IN  TXT  "dnsaddr=/ip4/1.2.3.4/tcp/11511/p2p/12D3Koo..."
//	_dnsaddr.splash.dexie.space.  300  IN  TXT  "dnsaddr=/dnsaddr/eu.splash.dexie.space"
//
// 嵌套的 /dnsaddr 记录会递归解析（受 MaxDepth 限制），结果去重后按出现顺序返回。
// 启动时只解析一次，不重试；返回的地址是否携带 /p2p 组件由调用方检查。
package dns
