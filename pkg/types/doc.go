// Package types 定义 splash 对外公开的类型
//
// 节点事件（Event）是节点向上层报告状态变化的唯一通道，
// 使用者通过类型断言或 type switch 区分具体事件：
//
//	for evt := range node.Events() {
//	    switch e := evt.(type) {
//	    case *types.EvtMessageReceived:
//	        fmt.Println(e.Message)
//	    case *types.EvtPeerConnected:
//	        fmt.Println("connected", e.PeerID)
//	    }
//	}
package types
