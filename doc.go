// Package splash 实现 Splash! 去中心化 offer 广播节点
//
// 节点加入一个 gossip 网络，把本地提交的消息广播给所有对端，
// 并通过事件通道报告收到的消息、连接变化与监听地址。
//
// # 快速开始
//
//	node, err := splash.Start(ctx,
//	    splash.WithListenAddrs("/ip4/0.0.0.0/tcp/11511"),
//	    splash.WithTestnet(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	go func() {
//	    for evt := range node.Events() {
//	        switch e := evt.(type) {
//	        case *splash.EvtMessageReceived:
//	            fmt.Println("received:", e.Message)
//	        }
//	    }
//	}()
//
//	if err := node.Broadcast(ctx, []byte("offer1...")); err != nil {
//	    // ErrMessageTooLarge 或 ErrSendFailed
//	}
//
// # 网络命名空间
//
// 命名空间只有两个取值：splash（默认）与 splash-testnet。由它派生：
//
//	gossip topic    /{ns}/messages/1
//	kad 协议        /{ns}/kad/1
//	identify 协议   /{ns}/id/1
//	agent           splash/{Version}
//
// # 引导
//
// 未配置已知节点时，启动阶段解析一次 DNS 种子（_dnsaddr TXT 记录），不重试。
// 每个引导地址都必须以 /p2p/<PeerID> 结尾，否则启动失败且不会绑定任何监听地址。
//
// # 生命周期
//
// New 只做配置与校验；Start 解析引导节点、构造协议引擎、绑定监听地址、
// 加入 topic 并启动事件循环；Close 停止事件循环、关闭全部引擎，
// 最后关闭事件通道。
package splash
