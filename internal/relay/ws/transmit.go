package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultBatchInterval 默认批量推送间隔
const DefaultBatchInterval = 300 * time.Millisecond

// Data 转发给客户端的一条消息
type Data struct {
	Offer string `json:"offer"`
	Ts    string `json:"ts"`
}

// NewData 以当前 UTC 时间创建 Data
func NewData(offer string, now time.Time) Data {
	return Data{Offer: offer, Ts: now.UTC().Format(time.RFC3339)}
}

// TransmitOption Transmit 选项
type TransmitOption func(*transmitter)

// WithInterval 设置推送间隔
func WithInterval(d time.Duration) TransmitOption {
	return func(t *transmitter) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithClock 替换时钟
func WithClock(c clock.Clock) TransmitOption {
	return func(t *transmitter) { t.clock = c }
}

type transmitter struct {
	interval time.Duration
	clock    clock.Clock
}

// Transmit 缓冲 in 中的消息并按固定间隔推送给 s
//
// in 关闭时推送剩余消息并返回 nil；ctx 结束时丢弃缓冲并返回 ctx.Err()。
func Transmit(ctx context.Context, s Sender, in <-chan Data, opts ...TransmitOption) error {
	t := transmitter{interval: DefaultBatchInterval, clock: clock.New()}
	for _, opt := range opts {
		opt(&t)
	}

	ticker := t.clock.Ticker(t.interval)
	defer ticker.Stop()

	var buffer []Data
	flush := func() {
		for _, d := range buffer {
			frame, err := json.Marshal(d)
			if err != nil {
				log.Warn("编码 WebSocket 消息失败", "err", err)
				continue
			}
			s.Send(frame)
		}
		buffer = buffer[:0]
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-in:
			if !ok {
				flush()
				return nil
			}
			buffer = append(buffer, d)
		case <-ticker.C:
			flush()
		}
	}
}
