package gossip

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pb "github.com/libp2p/go-libp2p-pubsub/pb"
	"github.com/libp2p/go-libp2p/core/crypto"
	p2phost "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/mpwsh/splash/internal/core/behaviour"
	"github.com/mpwsh/splash/internal/protocol/message"
	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("protocol/gossip")

// Engine GossipSub 引擎
type Engine struct {
	cfg  Config
	self peer.ID
	ps   *pubsub.PubSub

	mu      sync.Mutex
	topics  map[string]*pubsub.Topic
	subs    map[string]*pubsub.Subscription
	// pending 等待裁决的消息，按内容 ID 索引，同一内容只上报一次
	pending map[string]pendingValidation

	// seen 最近发布或接受过的消息 ID
	seen *expirable.LRU[string, struct{}]

	events chan behaviour.Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

var _ behaviour.Gossip = (*Engine)(nil)

type pendingValidation struct {
	source peer.ID
	reply  chan behaviour.Acceptance
}

// New 在 h 上创建 GossipSub 引擎
func New(h p2phost.Host, cfg Config) (*Engine, error) {
	author, err := ephemeralAuthor(h)
	if err != nil {
		return nil, err
	}

	params := pubsub.DefaultGossipSubParams()
	params.HeartbeatInterval = cfg.HeartbeatInterval

	ctx, cancel := context.WithCancel(context.Background())
	ps, err := pubsub.NewGossipSub(ctx, h,
		pubsub.WithGossipSubParams(params),
		pubsub.WithMaxMessageSize(cfg.MaxTransmitSize),
		pubsub.WithMessageIdFn(func(m *pb.Message) string { return message.ID(m.Data) }),
		pubsub.WithMessageSignaturePolicy(pubsub.LaxSign),
		pubsub.WithMessageAuthor(author),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("gossip: create gossipsub: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		self:    h.ID(),
		ps:      ps,
		topics:  make(map[string]*pubsub.Topic),
		subs:    make(map[string]*pubsub.Subscription),
		pending: make(map[string]pendingValidation),
		seen:    expirable.NewLRU[string, struct{}](cfg.DuplicateCacheSize, nil, cfg.DuplicateTTL),
		events:  make(chan behaviour.Event, cfg.EventBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}

	log.Info("GossipSub 已创建",
		"heartbeat", cfg.HeartbeatInterval,
		"maxTransmitSize", cfg.MaxTransmitSize,
		"author", author)
	return e, nil
}

// ephemeralAuthor 生成一个与节点身份无关的签名密钥，并放入 peerstore 供 pubsub 取用
func ephemeralAuthor(h p2phost.Host) (peer.ID, error) {
	priv, pub, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("gossip: generate author key: %w", err)
	}
	id, err := peer.IDFromPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("gossip: derive author id: %w", err)
	}
	if err := h.Peerstore().AddPrivKey(id, priv); err != nil {
		return "", fmt.Errorf("gossip: store author key: %w", err)
	}
	if err := h.Peerstore().AddPubKey(id, pub); err != nil {
		return "", fmt.Errorf("gossip: store author key: %w", err)
	}
	return id, nil
}

// Events 实现 behaviour.EventSource
func (e *Engine) Events() <-chan behaviour.Event {
	return e.events
}

// Subscribe 加入 topic 并注册两阶段验证器
func (e *Engine) Subscribe(topic string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx.Err() != nil {
		return ErrClosed
	}
	if _, ok := e.topics[topic]; ok {
		return nil
	}

	if err := e.ps.RegisterTopicValidator(topic, e.validate); err != nil {
		return fmt.Errorf("gossip: register validator for %s: %w", topic, err)
	}
	t, err := e.ps.Join(topic)
	if err != nil {
		_ = e.ps.UnregisterTopicValidator(topic)
		return fmt.Errorf("gossip: join %s: %w", topic, err)
	}
	sub, err := t.Subscribe()
	if err != nil {
		_ = t.Close()
		_ = e.ps.UnregisterTopicValidator(topic)
		return fmt.Errorf("gossip: subscribe %s: %w", topic, err)
	}

	e.topics[topic] = t
	e.subs[topic] = sub

	e.wg.Add(1)
	go e.drain(sub)

	log.Info("已订阅 topic", "topic", topic)
	return nil
}

// drain 订阅只用于加入 mesh，消息已在验证器中上报
func (e *Engine) drain(sub *pubsub.Subscription) {
	defer e.wg.Done()
	for {
		if _, err := sub.Next(e.ctx); err != nil {
			return
		}
	}
}

// Publish 向 topic 发布消息
func (e *Engine) Publish(ctx context.Context, topic string, data []byte) error {
	e.mu.Lock()
	t, ok := e.topics[topic]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSubscribed, topic)
	}

	id := message.ID(data)
	if e.seen.Contains(id) {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	if e.cfg.RequirePeers && len(t.ListPeers()) == 0 {
		return ErrInsufficientPeers
	}

	if err := t.Publish(ctx, data); err != nil {
		return fmt.Errorf("gossip: publish: %w", err)
	}
	e.seen.Add(id, struct{}{})
	return nil
}

// TopicPeers 返回订阅了 topic 的对端
func (e *Engine) TopicPeers(topic string) []peer.ID {
	e.mu.Lock()
	t, ok := e.topics[topic]
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return t.ListPeers()
}

// Close 关闭引擎，等待中的验证以 Ignore 结束
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.cancel()

		e.mu.Lock()
		for topic, sub := range e.subs {
			sub.Cancel()
			_ = e.ps.UnregisterTopicValidator(topic)
		}
		for _, t := range e.topics {
			_ = t.Close()
		}
		e.subs = map[string]*pubsub.Subscription{}
		e.topics = map[string]*pubsub.Topic{}
		e.mu.Unlock()

		e.wg.Wait()
		log.Info("GossipSub 已关闭")
	})
	return nil
}
