package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("api")

// Server HTTP 服务
type Server struct {
	name    string
	addr    string
	handler http.Handler

	server   *http.Server
	listener net.Listener
	running  bool

	mu sync.Mutex
}

// NewServer 创建 HTTP 服务，name 仅用于日志
func NewServer(name, addr string, handler http.Handler) *Server {
	return &Server{name: name, addr: addr, handler: handler}
}

// Start 绑定地址并在后台开始服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP 服务异常退出", "server", s.name, "err", err)
		}
	}()

	s.running = true
	log.Info("HTTP 服务已启动", "server", s.name, "addr", listener.Addr().String())
	return nil
}

// Stop 优雅停止服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error("关闭 HTTP 服务失败", "server", s.name, "err", err)
		return err
	}

	s.running = false
	log.Info("HTTP 服务已停止", "server", s.name)
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
