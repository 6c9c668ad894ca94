package api

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"
)

// maxBodyBytes 提交请求体上限，超过时按格式错误处理
const maxBodyBytes = 1 << 20

// errInvalidFormat 请求体缺少消息字段时返回的错误文本
const errInvalidFormat = "Invalid message format"

// Broadcaster 接受待广播的消息
type Broadcaster interface {
	Broadcast(ctx context.Context, msg []byte) error
}

// SubmissionRequest 提交请求体
//
// 优先读取 offer，兼容 message。
type SubmissionRequest struct {
	Offer   *string `json:"offer,omitempty"`
	Message *string `json:"message,omitempty"`
}

// text 返回请求中的消息文本
func (r SubmissionRequest) text() (string, bool) {
	switch {
	case r.Offer != nil:
		return *r.Offer, true
	case r.Message != nil:
		return *r.Message, true
	default:
		return "", false
	}
}

// SubmissionResponse 提交响应体
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SubmissionHandler 消息提交处理器
type SubmissionHandler struct {
	node    Broadcaster
	limiter *rate.Limiter
}

// NewSubmissionHandler 创建提交处理器，limiter 为 nil 时不限流
func NewSubmissionHandler(node Broadcaster, limiter *rate.Limiter) *SubmissionHandler {
	return &SubmissionHandler{node: node, limiter: limiter}
}

// NewLimiter 按每秒请求数与突发量创建限流器，rps 为 0 时返回 nil
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// ServeHTTP 实现 http.Handler
func (h *SubmissionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, SubmissionResponse{Error: "method not allowed"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, SubmissionResponse{Error: "rate limit exceeded"})
		return
	}

	var req SubmissionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, SubmissionResponse{Error: errInvalidFormat})
		return
	}
	msg, ok := req.text()
	if !ok {
		writeJSON(w, http.StatusOK, SubmissionResponse{Error: errInvalidFormat})
		return
	}

	if err := h.node.Broadcast(r.Context(), []byte(msg)); err != nil {
		log.Debug("提交消息失败", "size", len(msg), "err", err)
		writeJSON(w, http.StatusOK, SubmissionResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, SubmissionResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("写入响应失败", "err", err)
	}
}
