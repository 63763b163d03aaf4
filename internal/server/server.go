package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/discovery"
	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/version"
)

// DefaultPort is the port of the plugin's host application.
const DefaultPort = 5000

// shutdownTimeout bounds the wait for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Provider answers status requests. hostgpio.Provider implements it.
type Provider interface {
	Status(ctx context.Context, req pinout.Request) (*pinout.Response, error)
}

// Config holds the server configuration
type Config struct {
	Host      string
	Port      int
	APIKey    string // Required X-Api-Key value; empty disables the check
	CertPath  string // Serve HTTPS when set together with KeyPath
	KeyPath   string
	Advertise bool   // Register the server over mDNS
	Instance  string // mDNS instance name; defaults to "gpiostatus on <hostname>"
}

// Server is the GPIO status HTTP server
type Server struct {
	config     *Config
	provider   Provider
	tlsConfig  *tls.Config
	httpServer *http.Server
	upgrader   websocket.Upgrader
	advertiser *discovery.Advertiser

	wg      sync.WaitGroup
	mu      sync.Mutex
	streams map[*websocket.Conn]string
}

// New creates a new Server instance
func New(config *Config, provider Provider) (*Server, error) {
	if provider == nil {
		return nil, errors.New("server needs a status provider")
	}
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}

	s := &Server{
		config:   config,
		provider: provider,
		streams:  make(map[*websocket.Conn]string),
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.tlsConfig = tlsConfig
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Start listens on the configured address and blocks until a shutdown
// signal or a listener error.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	logging.Info("Starting GPIO status server",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("api_key", s.config.APIKey != ""),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
	)

	if s.config.Advertise {
		s.advertise(listener.Addr())
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		s.advertiser.Shutdown()
		return err
	}
}

// Serve handles requests on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) advertise(addr net.Addr) {
	port := s.config.Port
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}

	instance := s.config.Instance
	if instance == "" {
		hostname, _ := os.Hostname()
		instance = "gpiostatus on " + hostname
	}

	adv, err := discovery.Advertise(instance, port, version.Version)
	if err != nil {
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return
	}
	s.advertiser = adv
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advertiser.Shutdown()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	}

	// Hijacked stream connections are not tracked by http.Server
	s.mu.Lock()
	for conn, addr := range s.streams {
		logging.Info("Closing active stream", zap.String("remote_addr", addr))
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
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
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, streams still open")
	}

	logging.Sync()
	return nil
}

// ActiveStreams returns the number of open WebSocket streams
func (s *Server) ActiveStreams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams)
}
