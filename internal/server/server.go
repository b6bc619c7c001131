package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/skeletal/internal/core/config"
	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/pkg/generic"
)

// Server ticks an instance manager at a fixed rate and streams the
// resulting poses to websocket clients.
type Server struct {
	manager *instance.Manager
	records *recordCollector

	// Client management
	clients     sync.Map // map[string]*client
	clientCount int64    // atomic

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool
	ticks   uint64
	dropped uint64

	config Config
	logger log.Log

	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader
	buffers    *generic.Pool[*bytes.Buffer]

	// joinMu orders client registration against Stop so that no worker
	// is added to workerGroup once Stop has started waiting.
	joinMu      sync.Mutex
	workerGroup sync.WaitGroup
	cancel      context.CancelFunc
}

// Config holds server configuration
type Config struct {
	ListenAddr string
	// TickRate is both the wall clock period of a tick and the time the
	// instances are advanced by.
	TickRate     time.Duration
	WriteTimeout time.Duration
	// MaxClients of zero means no limit.
	MaxClients int
	// SendBuffer is the number of frames queued per client before frames
	// are dropped for it.
	SendBuffer int
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8080",
		TickRate:     time.Second / 30,
		WriteTimeout: 5 * time.Second,
		MaxClients:   64,
		SendBuffer:   8,
	}
}

// ConfigFrom converts the server section of the YAML configuration.
func ConfigFrom(c config.ServerConfig) Config {
	out := DefaultServerConfig()
	out.ListenAddr = c.ListenAddr
	out.TickRate = c.TickRate
	out.WriteTimeout = c.WriteTimeout
	out.MaxClients = c.MaxClients
	return out
}

func (c Config) validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive", ErrBadConfig)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("%w: send buffer must be positive", ErrBadConfig)
	}
	return nil
}

// Frame is the message sent to clients after every tick.
type Frame struct {
	Tick    uint64                  `json:"tick"`
	Poses   []instance.PoseSnapshot `json:"poses"`
	Records []RecordMessage         `json:"records,omitempty"`
}

// Stats is a point in time view of the server.
type Stats struct {
	Clients       int64  `json:"clients"`
	Instances     int    `json:"instances"`
	Ticks         uint64 `json:"ticks"`
	DroppedFrames uint64 `json:"dropped_frames"`
}

// NewServer creates a pose server for manager.
func NewServer(manager *instance.Manager, config Config, logger log.Log) (*Server, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultServerConfig().WriteTimeout
	}

	server := &Server{
		manager: manager,
		records: &recordCollector{},
		config:  config,
		logger:  logger.With(log.Component("pose-server")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		buffers: generic.NewPool(func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, 4096))
		}).WithReset(func(b *bytes.Buffer) *bytes.Buffer {
			b.Reset()
			return b
		}),
	}

	server.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Duration("tick_rate", config.TickRate),
		log.Int("max_clients", config.MaxClients))

	return server, nil
}

// Start listens on the configured address and starts ticking. The server
// runs until Stop is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrAlreadyStarted
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListen, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.manager.Bus().AddObserver(s.records)

	s.workerGroup.Add(2)
	go s.serve()
	go s.tickLoop(runCtx)

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the listening address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops ticking, disconnects every client and waits for the
// server goroutines until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrNotStarted
	}

	s.logger.Info("Stopping server")
	s.cancel()
	s.manager.Bus().RemoveObserver(s.records)

	shutdownErr := s.httpServer.Shutdown(ctx)

	// Hijacked websocket connections are not closed by Shutdown.
	s.joinMu.Lock()
	s.clients.Range(func(_, value any) bool {
		value.(*client).close(websocket.CloseGoingAway, "server stopping")
		return true
	})
	s.joinMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.workerGroup.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(shutdownErr, ctx.Err())
	}

	s.logger.Info("Server stopped", log.Uint64("ticks", atomic.LoadUint64(&s.ticks)))
	return shutdownErr
}

// Close stops the server if it is running. A closed server cannot be
// started again.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
		defer cancel()
		return s.Stop(ctx)
	}
	return nil
}

func (s *Server) GetStats() Stats {
	return Stats{
		Clients:       atomic.LoadInt64(&s.clientCount),
		Instances:     s.manager.Len(),
		Ticks:         atomic.LoadUint64(&s.ticks),
		DroppedFrames: atomic.LoadUint64(&s.dropped),
	}
}

func (s *Server) serve() {
	defer s.workerGroup.Done()
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("HTTP server failed", log.Error(err))
	}
}

// tickLoop advances the manager by a fixed step per tick so playback does
// not depend on scheduling jitter.
func (s *Server) tickLoop(ctx context.Context) {
	defer s.workerGroup.Done()
	s.logger.Debug("Tick loop started")
	defer s.logger.Debug("Tick loop stopped")

	ticker := time.NewTicker(s.config.TickRate)
	defer ticker.Stop()
	delta := float32(s.config.TickRate.Seconds())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step(ctx, delta)
		}
	}
}

func (s *Server) step(ctx context.Context, delta float32) {
	if err := s.manager.Tick(ctx, delta); err != nil && ctx.Err() == nil {
		s.logger.Warn("Tick failed", log.Error(err))
	}

	frame := Frame{
		Tick:    atomic.AddUint64(&s.ticks, 1),
		Poses:   s.manager.Snapshots(),
		Records: s.records.take(),
	}
	payload, err := s.encode(frame)
	if err != nil {
		s.logger.Error("Failed to encode frame", log.Error(err))
		return
	}
	s.broadcast(payload)
}

// encode marshals v through a pooled buffer and returns a copy that
// may be shared between clients.
func (s *Server) encode(v any) ([]byte, error) {
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (s *Server) broadcast(payload []byte) {
	s.clients.Range(func(_, value any) bool {
		c := value.(*client)
		if !c.enqueue(payload) {
			atomic.AddUint64(&s.dropped, 1)
			s.logger.Debug("Client too slow, frame dropped", log.String("client_id", c.id))
		}
		return true
	})
}
