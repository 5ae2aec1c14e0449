// Package broadcast fans out accepted-telegram JSON updates to connected
// WebSocket clients (dashboards, the TUI monitor, external integrations),
// over a plain net/http + gorilla/websocket server.
package broadcast

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/2007M4N/wmbusmeters/internal/logging"
)

// Config holds the broadcast server configuration.
type Config struct {
	Host string
	Port int
}

// Server accepts WebSocket clients on /updates and pushes every Publish'd
// message to all of them.
type Server struct {
	config   Config
	upgrader websocket.Upgrader
	http     *http.Server
	listener net.Listener

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	wg      sync.WaitGroup
}

// New constructs a Server; call Start to begin listening.
func New(config Config) *Server {
	s := &Server{
		config:   config,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		clients:  make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/updates", s.handleUpdates)
	s.http = &http.Server{Handler: mux}

	return s
}

// Start listens and blocks until a shutdown signal (SIGINT/SIGTERM) is
// received or the listener fails, then shuts down gracefully.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("broadcast: listen %s: %w", addr, err)
	}
	s.listener = listener

	logging.Info("broadcast server listening", zap.String("addr", addr))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("shutdown signal received, stopping broadcast server")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.removeClient(conn)
		// The broadcast channel is one-way (server to client); drain and
		// discard anything the client sends so the read loop notices a
		// close frame or connection drop.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

// Publish sends data (typically the JSON rendering of an accepted update)
// to every connected client. A client whose write fails is dropped.
func (s *Server) Publish(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.Warn("broadcast write failed, dropping client", zap.Error(err))
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

// ClientCount returns the number of currently connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Shutdown closes the listener, all client connections, and waits (up to
// 10 seconds) for the read-loop goroutines to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		logging.Warn("error shutting down http server", zap.Error(err))
	}

	s.mu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("all broadcast clients closed gracefully")
	case <-ctx.Done():
		logging.Warn("broadcast shutdown context cancelled, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("broadcast shutdown timeout after 10 seconds, forcing close")
	}

	return nil
}
