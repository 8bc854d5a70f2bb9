package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/ecosim/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// feedClient is one websocket observer. Snapshots are queued on send and
// written by a dedicated goroutine.
type feedClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func (s *FeedServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.String("remote_addr", r.RemoteAddr), log.Error(err))
		return
	}

	c := &feedClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, s.config.SendBuffer),
		done: make(chan struct{}),
	}
	if data := s.encoded.Load(); data != nil {
		c.send <- *data
	}

	s.mu.Lock()
	s.clients[c.id] = c
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("Feed client connected",
		log.String("client_id", c.id),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int("total_clients", total))

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards client input and returns when the connection closes.
func (s *FeedServer) readLoop(c *feedClient) {
	defer s.removeClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *FeedServer) writeLoop(c *feedClient) {
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("Feed write failed", log.String("client_id", c.id), log.Error(err))
				_ = c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *FeedServer) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.dropped.Add(1)
		}
	}
}

func (s *FeedServer) removeClient(c *feedClient) {
	s.mu.Lock()
	_, ok := s.clients[c.id]
	delete(s.clients, c.id)
	total := len(s.clients)
	s.mu.Unlock()
	if !ok {
		return
	}

	close(c.done)
	_ = c.conn.Close()
	s.logger.Info("Feed client disconnected", log.String("client_id", c.id), log.Int("total_clients", total))
}

func (s *FeedServer) closeClients() {
	s.mu.Lock()
	clients := make([]*feedClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
			time.Now().Add(time.Second))
		s.removeClient(c)
	}
}
