// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package relay

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // snapshots carry the whole story
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// conn is one websocket subscriber on a channel.
type conn struct {
	ws   *websocket.Conn
	send chan []byte
}

// channel is the set of connections sharing one name.
type channel struct {
	name  string
	conns map[*conn]struct{}
}

// Server is the websocket fan-out relay. Every frame received on
// /channels/{name} is forwarded verbatim to the other connections on the
// same channel. Connections that cannot drain their send buffer are dropped
// rather than allowed to stall the channel.
type Server struct {
	logger *slog.Logger

	mu       sync.Mutex
	channels map[string]*channel
}

// NewServer builds a relay server.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:   logger.With("component", "relay"),
		channels: make(map[string]*channel),
	}
}

// ServeHTTP upgrades /channels/{name} requests to websocket subscriptions.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/channels/")
	if name == "" || name == r.URL.Path || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "channel", name, "error", err)
		return
	}

	c := &conn{ws: ws, send: make(chan []byte, sendBuffer)}
	s.join(name, c)
	s.logger.Info("peer joined", "channel", name)

	go s.writePump(name, c)
	s.readPump(name, c)
}

func (s *Server) join(name string, c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[name]
	if !ok {
		ch = &channel{name: name, conns: make(map[*conn]struct{})}
		s.channels[name] = ch
	}
	ch.conns[c] = struct{}{}
	ActiveConnections.WithLabelValues(name).Inc()
}

func (s *Server) leave(name string, c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[name]
	if !ok {
		return
	}
	if _, present := ch.conns[c]; !present {
		return
	}
	delete(ch.conns, c)
	close(c.send)
	ActiveConnections.WithLabelValues(name).Dec()
	if len(ch.conns) == 0 {
		delete(s.channels, name)
	}
}

// broadcast forwards a frame to every other connection on the channel.
// Subscribers whose buffers are full are removed on the spot.
func (s *Server) broadcast(name string, from *conn, frame []byte) {
	s.mu.Lock()
	ch, ok := s.channels[name]
	if !ok {
		s.mu.Unlock()
		return
	}
	var stalled []*conn
	for c := range ch.conns {
		if c == from {
			continue
		}
		select {
		case c.send <- frame:
			MessagesRelayed.WithLabelValues(name).Inc()
		default:
			stalled = append(stalled, c)
		}
	}
	s.mu.Unlock()

	for _, c := range stalled {
		s.logger.Warn("dropping slow consumer", "channel", name)
		SlowConsumerDrops.Inc()
		s.leave(name, c)
		_ = c.ws.Close()
	}
}

func (s *Server) readPump(name string, c *conn) {
	defer func() {
		s.leave(name, c)
		_ = c.ws.Close()
		s.logger.Info("peer left", "channel", name)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "channel", name, "error", err)
			}
			return
		}
		s.broadcast(name, c, frame)
	}
}

func (s *Server) writePump(name string, c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
