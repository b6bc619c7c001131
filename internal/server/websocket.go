package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/skeletal/internal/core/observability/log"
)

type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	timeout time.Duration
}

// enqueue hands a frame to the writer. It reports false when the client
// buffer is full or the client is gone.
func (c *client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) close(code int, reason string) {
	c.once.Do(func() {
		close(c.done)
		deadline := time.Now().Add(c.timeout)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = c.conn.Close()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.running) == 0 {
		http.Error(w, ErrNotStarted.Error(), http.StatusServiceUnavailable)
		return
	}
	if s.config.MaxClients > 0 && int(atomic.AddInt64(&s.clientCount, 1)) > s.config.MaxClients {
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrClientLimit.Error(), http.StatusServiceUnavailable)
		return
	}
	if s.config.MaxClients <= 0 {
		atomic.AddInt64(&s.clientCount, 1)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, s.config.SendBuffer),
		done:    make(chan struct{}),
		timeout: s.config.WriteTimeout,
	}
	if !s.join(c) {
		c.close(websocket.CloseGoingAway, "server stopping")
		atomic.AddInt64(&s.clientCount, -1)
		return
	}

	s.logger.Info("Client connected",
		log.String("client_id", c.id),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))

	go s.writeLoop(c)
	s.readLoop(c)
}

// join registers c and its writer unless Stop got there first.
func (s *Server) join(c *client) bool {
	s.joinMu.Lock()
	defer s.joinMu.Unlock()
	if atomic.LoadInt32(&s.running) == 0 {
		return false
	}
	s.clients.Store(c.id, c)
	s.workerGroup.Add(1)
	return true
}

// readLoop discards client messages; reading is needed to process control
// frames and to notice disconnects.
func (s *Server) readLoop(c *client) {
	defer func() {
		s.clients.Delete(c.id)
		c.close(websocket.CloseNormalClosure, "")
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Info("Client disconnected",
			log.String("client_id", c.id),
			log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))
	}()

	c.conn.SetReadLimit(4096)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Client read failed", log.String("client_id", c.id), log.Error(err))
			}
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer s.workerGroup.Done()
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Debug("Client write failed", log.String("client_id", c.id), log.Error(err))
				c.close(websocket.CloseInternalServerErr, "write failed")
				return
			}
		}
	}
}
