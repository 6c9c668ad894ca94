// Package api 节点外围 HTTP 服务
//
// 包含三部分：
//
//   - 消息提交：POST JSON {"offer": "..."}，始终以 200 返回
//     {"success": true} 或 {"success": false, "error": "..."}
//   - 指标：GET / 返回 JSON 快照，GET /metrics 返回 prometheus 文本格式
//   - 消息钩子：把收到的每条消息以 {"message": "..."} POST 到指定 URL
//
// Server 封装 http.Server 的启动与停止。
package api
