// Package main 提供 splash 命令行入口
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpwsh/splash"
	"github.com/mpwsh/splash/config"
	"github.com/mpwsh/splash/internal/api"
	"github.com/mpwsh/splash/internal/core/metrics"
	"github.com/mpwsh/splash/internal/relay/ws"
	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	knownPeers      listFlag
	listenAddresses listFlag

	configFile   = flag.String("config", "", "JSON 配置文件路径")
	identityFile = flag.String("identity-file", "", "保存并复用节点身份（仅对已知节点有用）")
	testnet      = flag.Bool("testnet", false, "使用测试网")

	messageHook      = flag.String("message-hook", "", "收到的消息以 JSON {\"message\":\"offer1...\"} POST 到该地址（默认输出到 STDOUT）")
	listenSubmission = flag.String("listen-message-submission", "", "启动消息提交 HTTP API（HOST:PORT），请求体 {\"offer\":\"offer1...\"}")
	listenMetrics    = flag.String("listen-metrics", "", "启动指标 HTTP API（HOST:PORT）")
	listenWebsocket  = flag.String("listen-websocket", "", "启动 WebSocket 消息转发服务（HOST:PORT）")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

func init() {
	flag.Var(&knownPeers, "known-peer", "初始节点（MULTIADDR，可重复），为空时使用 DNS 种子")
	flag.Var(&listenAddresses, "listen-address", "监听地址（MULTIADDR，可重复），默认所有接口")
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(splash.VersionInfo())
		return nil
	}

	fmt.Printf("Welcome to Splash! v%s\n", splash.Version)

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	if cfg.Network.IsTestnet() {
		fmt.Println("Using Testnet")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	node, err := splash.Start(ctx, splash.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	log.Info("节点已启动", "version", splash.Version, "peer", node.ID(), "topic", node.Topic())

	m := metrics.New()
	g, gctx := errgroup.WithContext(ctx)

	servers, relay, err := startServices(gctx, g, cfg.API, node, m)
	if err != nil {
		_ = node.Close()
		return err
	}

	var hook *api.Hook
	if cfg.API.MessageHook != "" {
		hook = api.NewHook(cfg.API.MessageHook, cfg.API.HookTimeout.Duration())
	}

	// 关闭信号到达后关闭节点，事件通道随之关闭
	g.Go(func() error {
		<-gctx.Done()
		fmt.Println("\n正在关闭节点...")
		return node.Close()
	})

	g.Go(func() error {
		consumeEvents(gctx, node, m, hook, relay)
		return nil
	})

	err = g.Wait()
	stopServers(servers)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// buildConfig 合并配置
//
// 优先级（从高到低）：命令行参数、环境变量（SPLASH_* 前缀）、配置文件、默认值。
func buildConfig() (*config.Config, error) {
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if len(knownPeers) > 0 {
		cfg.KnownPeers = append([]string(nil), knownPeers...)
	}
	if len(listenAddresses) > 0 {
		cfg.ListenAddrs = append([]string(nil), listenAddresses...)
	}
	if isFlagSet("testnet") {
		cfg.Network = config.NetworkFor(*testnet)
	}
	if *identityFile != "" {
		cfg.Identity = cfg.Identity.WithKeyFile(*identityFile)
	}
	if *messageHook != "" {
		cfg.API.MessageHook = *messageHook
	}
	if *listenSubmission != "" {
		cfg.API.SubmissionAddr = *listenSubmission
	}
	if *listenMetrics != "" {
		cfg.API.MetricsAddr = *listenMetrics
	}
	if *listenWebsocket != "" {
		cfg.API.WebsocketAddr = *listenWebsocket
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// ═══════════════════════════════════════════════════════════════════════════
// 外围服务
// ═══════════════════════════════════════════════════════════════════════════

// startServices 启动已配置的 HTTP 与 WebSocket 服务
//
// 返回的 relay 在未配置 WebSocket 时为 nil。
func startServices(ctx context.Context, g *errgroup.Group, cfg config.APIConfig, node *splash.Node, m *metrics.Metrics) ([]*api.Server, chan<- ws.Data, error) {
	var servers []*api.Server
	start := func(name, addr string, handler http.Handler) error {
		srv := api.NewServer(name, addr, handler)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("启动 %s 服务失败: %w", name, err)
		}
		servers = append(servers, srv)
		return nil
	}

	if cfg.SubmissionAddr != "" {
		handler := api.NewSubmissionHandler(node, api.NewLimiter(cfg.SubmissionRate, cfg.SubmissionBurst))
		if err := start("submission", cfg.SubmissionAddr, handler); err != nil {
			stopServers(servers)
			return nil, nil, err
		}
	}

	if cfg.MetricsAddr != "" {
		handler, err := api.NewMetricsHandler(m)
		if err != nil {
			stopServers(servers)
			return nil, nil, err
		}
		if err := start("metrics", cfg.MetricsAddr, handler); err != nil {
			stopServers(servers)
			return nil, nil, err
		}
	}

	if cfg.WebsocketAddr == "" {
		return servers, nil, nil
	}

	hub := ws.NewHub()
	if err := start("websocket", cfg.WebsocketAddr, hub); err != nil {
		stopServers(servers)
		return nil, nil, err
	}

	relay := make(chan ws.Data, 100)
	g.Go(func() error {
		defer hub.Close()
		return ws.Transmit(ctx, hub, relay, ws.WithInterval(cfg.BatchInterval.Duration()))
	})
	return servers, relay, nil
}

func stopServers(servers []*api.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Stop(ctx)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 事件处理
// ═══════════════════════════════════════════════════════════════════════════

// consumeEvents 打印节点事件并更新指标，直到事件通道关闭
func consumeEvents(ctx context.Context, node *splash.Node, m *metrics.Metrics, hook *api.Hook, relay chan<- ws.Data) {
	for evt := range node.Events() {
		m.Observe(evt)

		switch e := evt.(type) {
		case *splash.EvtInitialized:
			fmt.Printf("Our Peer ID: %s\n", e.PeerID)

		case *splash.EvtNewListenAddress:
			fmt.Printf("Listening on: %s\n", e.Addr)

		case *splash.EvtPeerConnected:
			fmt.Printf("Connected to peer: %s (peers: %d)\n", e.PeerID, m.Peers())

		case *splash.EvtPeerDisconnected:
			fmt.Printf("Disconnected from peer: %s (peers: %d)\n", e.PeerID, m.Peers())

		case *splash.EvtMessageBroadcasted:
			fmt.Printf("Broadcasted Message: %s\n", e.Message)

		case *splash.EvtMessageBroadcastFailed:
			fmt.Printf("Broadcasting Message failed: %s\n", e.Reason)

		case *splash.EvtMessageReceived:
			fmt.Printf("Received Message: %s\n", e.Message)

			if hook != nil {
				go func(msg string) {
					if err := hook.Post(ctx, msg); err != nil {
						fmt.Fprintf(os.Stderr, "Error posting to message hook: %v\n", err)
					}
				}(e.Message)
			}

			if relay != nil {
				select {
				case relay <- ws.NewData(e.Message, time.Now()):
				case <-ctx.Done():
				}
			}
		}
	}
}
