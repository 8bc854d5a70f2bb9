// Package server exposes a read-only observer feed of the simulation over
// HTTP and websocket. Handlers only ever see published snapshots, never live
// simulation state.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/system"
)

// Config holds feed server configuration
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`

	WriteTimeout time.Duration `yaml:"write_timeout"`
	// SendBuffer is the number of snapshots queued per websocket client
	// before further snapshots are dropped for that client.
	SendBuffer int `yaml:"send_buffer"`
}

// DefaultConfig returns default feed configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		WriteTimeout: 5 * time.Second,
		SendBuffer:   16,
	}
}

func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	return c
}

// FeedServer serves the latest published snapshot.
type FeedServer struct {
	config Config
	logger log.Log
	router *mux.Router

	latest  atomic.Pointer[system.Snapshot]
	encoded atomic.Pointer[[]byte]

	mu      sync.Mutex
	clients map[string]*feedClient
	dropped atomic.Uint64

	server   *http.Server
	listener net.Listener
	running  atomic.Bool
	workers  sync.WaitGroup
}

// NewFeedServer creates a feed server with its routes registered.
func NewFeedServer(config Config, logger log.Log) *FeedServer {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &FeedServer{
		config:  config.WithDefaults(),
		logger:  logger.With(log.String("component", "feed")),
		router:  mux.NewRouter(),
		clients: make(map[string]*feedClient),
	}
	s.registerRoutes()
	return s
}

// Handler returns the router serving every feed route.
func (s *FeedServer) Handler() http.Handler { return s.router }

// Publish makes snap the current snapshot and pushes it to every websocket
// client. snap must not be modified afterwards.
func (s *FeedServer) Publish(snap *system.Snapshot) {
	if snap == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("Failed to encode snapshot", log.Uint64("tick", snap.Tick), log.Error(err))
		return
	}
	s.latest.Store(snap)
	s.encoded.Store(&data)
	s.broadcast(data)
}

// Latest returns the most recently published snapshot.
func (s *FeedServer) Latest() (*system.Snapshot, bool) {
	snap := s.latest.Load()
	return snap, snap != nil
}

// Start listens on the configured address and serves in the background.
func (s *FeedServer) Start(_ context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to listen", log.String("addr", s.config.Addr), log.Error(err))
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Feed server stopped unexpectedly", log.Error(err))
		}
	}()

	s.logger.Info("Feed server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound listen address, or nil before Start.
func (s *FeedServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and disconnects all feed clients.
func (s *FeedServer) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}

	err := s.server.Shutdown(ctx)
	s.closeClients()
	s.workers.Wait()

	s.logger.Info("Feed server stopped")
	return err
}

// Stats contains feed statistics
type Stats struct {
	Clients int    `json:"clients"`
	Dropped uint64 `json:"dropped"`
}

func (s *FeedServer) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Clients: len(s.clients), Dropped: s.dropped.Load()}
}
