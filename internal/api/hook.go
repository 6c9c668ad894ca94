package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HookPayload 钩子请求体
type HookPayload struct {
	Message string `json:"message"`
}

// Hook 把收到的消息 POST 到外部 URL
type Hook struct {
	url    string
	client *http.Client
}

// NewHook 创建消息钩子
func NewHook(url string, timeout time.Duration) *Hook {
	return &Hook{url: url, client: &http.Client{Timeout: timeout}}
}

// URL 返回钩子地址
func (h *Hook) URL() string { return h.url }

// Post 发送一条消息，非 2xx 响应视为失败，不重试
func (h *Hook) Post(ctx context.Context, message string) error {
	body, err := json.Marshal(HookPayload{Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: hook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: hook post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api: hook post: unexpected status %s", resp.Status)
	}
	return nil
}
