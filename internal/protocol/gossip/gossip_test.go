package gossip

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pb "github.com/libp2p/go-libp2p-pubsub/pb"
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/protocol/message"
)

const testTopic = "/splash-testnet/messages/1"

func newTestHost(t *testing.T) p2phost.Host {
	t.Helper()
	h, err := libp2p.New(libp2p.ListenAddrStrings("/ip4/127.0.0.1/tcp/0"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func newTestEngine(t *testing.T, h p2phost.Host) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.HeartbeatInterval = 100 * time.Millisecond

	e, err := New(h, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	require.NoError(t, e.Subscribe(testTopic))
	return e
}

// connectedPair 创建两个互相连接并都订阅了 testTopic 的引擎
func connectedPair(t *testing.T) (a, b *Engine, ha, hb p2phost.Host) {
	t.Helper()
	ha, hb = newTestHost(t), newTestHost(t)
	a, b = newTestEngine(t, ha), newTestEngine(t, hb)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, ha.Connect(ctx, peer.AddrInfo{ID: hb.ID(), Addrs: hb.Addrs()}))

	require.Eventually(t, func() bool {
		return len(a.TopicPeers(testTopic)) > 0 && len(b.TopicPeers(testTopic)) > 0
	}, 10*time.Second, 50*time.Millisecond)

	// topic 对端可见时出站流可能还未建立，预热两个方向
	warmUp(t, a, b)
	warmUp(t, b, a)
	return a, b, ha, hb
}

// warmUp 从 from 反复发布预热消息，直到 to 收到一条，然后接受并清空 to 的事件
func warmUp(t *testing.T, from, to *Engine) {
	t.Helper()
	n := 0
	require.Eventually(t, func() bool {
		n++
		_ = from.Publish(context.Background(), testTopic, []byte(fmt.Sprintf("warmup-%d", n)))
		select {
		case evt := <-to.Events():
			msg, ok := evt.(behaviour.GossipMessage)
			if ok {
				_ = to.ReportValidationResult(msg.ID, msg.Source, behaviour.Accept)
			}
			return ok
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)

	for {
		select {
		case evt := <-to.Events():
			if msg, ok := evt.(behaviour.GossipMessage); ok {
				_ = to.ReportValidationResult(msg.ID, msg.Source, behaviour.Accept)
			}
		case <-time.After(300 * time.Millisecond):
			return
		}
	}
}

func nextMessage(t *testing.T, e *Engine) behaviour.GossipMessage {
	t.Helper()
	select {
	case evt := <-e.Events():
		msg, ok := evt.(behaviour.GossipMessage)
		require.True(t, ok)
		return msg
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for gossip message")
		return behaviour.GossipMessage{}
	}
}

// TestEngine_PublishErrors 测试发布的失败情形
func TestEngine_PublishErrors(t *testing.T) {
	e := newTestEngine(t, newTestHost(t))
	ctx := context.Background()

	err := e.Publish(ctx, "/other/messages/1", []byte("x"))
	assert.ErrorIs(t, err, ErrNotSubscribed)

	err = e.Publish(ctx, testTopic, []byte("offer1xyz"))
	assert.ErrorIs(t, err, ErrInsufficientPeers)

	err = e.ReportValidationResult(message.ID([]byte("x")), "nobody", behaviour.Accept)
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

// TestEngine_TwoPhaseAcceptance 测试远端消息上报后等待裁决
func TestEngine_TwoPhaseAcceptance(t *testing.T) {
	a, b, ha, _ := connectedPair(t)
	ctx := context.Background()

	data := []byte("offer1abc")
	require.NoError(t, a.Publish(ctx, testTopic, data))

	msg := nextMessage(t, b)
	assert.Equal(t, message.ID(data), msg.ID)
	assert.Equal(t, ha.ID(), msg.Source)
	assert.Equal(t, testTopic, msg.Topic)
	assert.Equal(t, data, msg.Data)
	assert.Equal(t, behaviour.OriginGossip, msg.Origin())

	assert.Equal(t, 1, b.PendingValidations())
	require.NoError(t, b.ReportValidationResult(msg.ID, msg.Source, behaviour.Accept))
	assert.Equal(t, 0, b.PendingValidations())

	// 重复裁决没有对应的等待项
	err := b.ReportValidationResult(msg.ID, msg.Source, behaviour.Accept)
	assert.ErrorIs(t, err, ErrUnknownMessage)

	// 已接受的内容再次发布视为重复
	assert.ErrorIs(t, b.Publish(ctx, testTopic, data), ErrDuplicate)
	assert.ErrorIs(t, a.Publish(ctx, testTopic, data), ErrDuplicate)
}

// TestEngine_Reject 测试拒绝后等待项被清除
func TestEngine_Reject(t *testing.T) {
	a, b, _, _ := connectedPair(t)

	require.NoError(t, a.Publish(context.Background(), testTopic, []byte("offer1bad")))

	msg := nextMessage(t, b)
	require.NoError(t, b.ReportValidationResult(msg.ID, msg.Source, behaviour.Reject))
	assert.Equal(t, 0, b.PendingValidations())
}

// TestEngine_CloseReleasesPending 测试关闭时未裁决的验证结束
func TestEngine_CloseReleasesPending(t *testing.T) {
	a, b, _, _ := connectedPair(t)

	require.NoError(t, a.Publish(context.Background(), testTopic, []byte("offer1late")))
	nextMessage(t, b)

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return b.PendingValidations() == 0 }, 5*time.Second, 20*time.Millisecond)
	assert.ErrorIs(t, b.Subscribe("/x"), ErrClosed)
}

// TestEngine_DuplicateContent 测试同一内容来自多个对端时只上报一次
func TestEngine_DuplicateContent(t *testing.T) {
	e := newTestEngine(t, newTestHost(t))
	ctx := context.Background()

	topic := testTopic
	copyOf := func() *pubsub.Message {
		return &pubsub.Message{Message: &pb.Message{Data: []byte("offer1dup"), Topic: &topic}}
	}

	results := make(chan pubsub.ValidationResult, 2)
	var wg sync.WaitGroup
	for _, from := range []peer.ID{"peer-a", "peer-b"} {
		wg.Add(1)
		go func(from peer.ID) {
			defer wg.Done()
			results <- e.validate(ctx, from, copyOf())
		}(from)
	}

	msg := nextMessage(t, e)
	assert.Equal(t, message.ID([]byte("offer1dup")), msg.ID)

	// 第二份副本在等待裁决期间被忽略
	require.Eventually(t, func() bool { return len(results) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, pubsub.ValidationIgnore, <-results)

	require.NoError(t, e.ReportValidationResult(msg.ID, msg.Source, behaviour.Accept))
	wg.Wait()
	assert.Equal(t, pubsub.ValidationAccept, <-results)

	// 已接受的内容再次到达也被忽略
	assert.Equal(t, pubsub.ValidationIgnore, e.validate(ctx, "peer-c", copyOf()))

	select {
	case evt := <-e.Events():
		t.Fatalf("duplicate content surfaced again: %v", evt)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 0, e.PendingValidations())
}

// TestEngine_ReportWrongSource 测试来源不匹配的裁决被拒绝
func TestEngine_ReportWrongSource(t *testing.T) {
	e := newTestEngine(t, newTestHost(t))
	topic := testTopic

	done := make(chan pubsub.ValidationResult, 1)
	go func() {
		done <- e.validate(context.Background(), "peer-a", &pubsub.Message{Message: &pb.Message{Data: []byte("offer1src"), Topic: &topic}})
	}()

	msg := nextMessage(t, e)
	assert.ErrorIs(t, e.ReportValidationResult(msg.ID, "peer-b", behaviour.Accept), ErrUnknownMessage)
	assert.Equal(t, 1, e.PendingValidations())

	require.NoError(t, e.ReportValidationResult(msg.ID, "peer-a", behaviour.Reject))
	assert.Equal(t, pubsub.ValidationReject, <-done)
}

// TestToValidationResult 测试裁决映射
func TestToValidationResult(t *testing.T) {
	assert.Equal(t, "accept", behaviour.Accept.String())
	assert.Equal(t, "reject", behaviour.Reject.String())
	assert.Equal(t, "ignore", behaviour.Ignore.String())
	assert.NotEqual(t, toValidationResult(behaviour.Accept), toValidationResult(behaviour.Reject))
	assert.Equal(t, toValidationResult(behaviour.Ignore), toValidationResult(behaviour.Acceptance(42)))
}
