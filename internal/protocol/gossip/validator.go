package gossip

import (
	"context"
	"fmt"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/protocol/message"
)

// validate 主题验证器：上报消息并等待裁决
//
// 同一内容在等待裁决期间或已被接受后再次到达（无论来自哪个对端）都直接 Ignore，
// 不会重复上报。
func (e *Engine) validate(ctx context.Context, from peer.ID, msg *pubsub.Message) pubsub.ValidationResult {
	if from == e.self {
		return pubsub.ValidationAccept
	}

	id := message.ID(msg.Data)
	reply := make(chan behaviour.Acceptance, 1)

	e.mu.Lock()
	if _, waiting := e.pending[id]; waiting || e.seen.Contains(id) {
		e.mu.Unlock()
		return pubsub.ValidationIgnore
	}
	e.pending[id] = pendingValidation{source: from, reply: reply}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		if pv, ok := e.pending[id]; ok && pv.reply == reply {
			delete(e.pending, id)
		}
		e.mu.Unlock()
	}()

	evt := behaviour.GossipMessage{
		ID:     id,
		Source: from,
		Topic:  msg.GetTopic(),
		Data:   msg.Data,
	}
	select {
	case e.events <- evt:
	case <-ctx.Done():
		return pubsub.ValidationIgnore
	case <-e.ctx.Done():
		return pubsub.ValidationIgnore
	}

	select {
	case acc := <-reply:
		return toValidationResult(acc)
	case <-ctx.Done():
		return pubsub.ValidationIgnore
	case <-e.ctx.Done():
		return pubsub.ValidationIgnore
	}
}

// ReportValidationResult 对上报的消息给出裁决
func (e *Engine) ReportValidationResult(id string, source peer.ID, acc behaviour.Acceptance) error {
	e.mu.Lock()
	pv, ok := e.pending[id]
	if ok && pv.source == source {
		delete(e.pending, id)
		if acc == behaviour.Accept {
			e.seen.Add(id, struct{}{})
		}
	}
	e.mu.Unlock()

	if !ok || pv.source != source {
		return fmt.Errorf("%w: id=%s source=%s", ErrUnknownMessage, id, source)
	}
	pv.reply <- acc
	return nil
}

// PendingValidations 返回等待裁决的消息数
func (e *Engine) PendingValidations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func toValidationResult(acc behaviour.Acceptance) pubsub.ValidationResult {
	switch acc {
	case behaviour.Accept:
		return pubsub.ValidationAccept
	case behaviour.Reject:
		return pubsub.ValidationReject
	default:
		return pubsub.ValidationIgnore
	}
}
