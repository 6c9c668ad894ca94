// Package identify 把 go-libp2p 内置的 identify 协议接入 behaviour 门面
//
// 协议版本与 agent 字符串通过 libp2p 选项在构造 Host 时设置，
// 对端 identify 完成后上报为 behaviour.IdentifyReceived。
package identify
