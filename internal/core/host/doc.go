// Package host 提供基于 go-libp2p 的传输层
//
// Host 构造时不绑定任何监听地址，由节点在启动阶段显式调用 Listen。
// 它向上报告三类事件：逐条连接的建立与关闭，以及新的本地监听地址。
//
// 传输栈固定为 TCP + Noise + Yamux。已确认的外部地址保存在
// 有界 LRU 中，并通过地址工厂随 identify 对外通告。
package host
