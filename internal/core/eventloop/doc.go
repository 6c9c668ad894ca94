// Package eventloop 节点主事件循环
//
// 循环在一个 goroutine 中对三个就绪源做公平选择，每轮只处理一个：
//
//   - 提交队列：取出一条负载并发布到 topic
//   - 发现计时器：以随机 PeerID 为目标发起最近节点查询
//   - 协议事件：连接变化、gossip 消息、identify 信息与监听地址
//
// 启动时先绑定监听地址并加入 topic，随后发出 Initialized，
// 立即执行第一次发现，再进入选择循环。
//
// 节点事件通道有界，发送会阻塞等待消费者；只有循环停止时才放弃发送。
package eventloop
