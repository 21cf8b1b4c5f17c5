// Package server exposes the engine's command/event protocol over
// websocket. Clients send JSON command envelopes and receive every
// engine event as a JSON message.
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ThryLox/hive-mind/sim"
)

// Server is the websocket hub: it registers clients, fans engine events
// out to all of them, and feeds inbound commands to the engine.
type Server struct {
	engine   *sim.Engine
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client serializes writes; gorilla allows one concurrent writer only.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func New(engine *sim.Engine, log *slog.Logger) *Server {
	return &Server{
		engine:   engine,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*client]struct{}),
	}
}

// Broadcast forwards every engine event to all connected clients. It
// returns when the engine closes its event channel; run it on its own
// goroutine.
func (s *Server) Broadcast() {
	for ev := range s.engine.Events {
		payload, err := EncodeEvent(ev)
		if err != nil {
			s.log.Warn("dropping event", "err", err)
			continue
		}

		s.mu.Lock()
		list := make([]*client, 0, len(s.clients))
		for c := range s.clients {
			list = append(list, c)
		}
		s.mu.Unlock()

		for _, c := range list {
			if err := c.send(payload); err != nil {
				s.log.Debug("client send failed, dropping", "err", err)
				s.drop(c)
			}
		}
	}
}

// HandleWS upgrades the connection and pumps inbound command envelopes
// into the engine until the client goes away. Malformed or unknown
// messages are logged and skipped, never fatal.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info("client connected", "remote", conn.RemoteAddr())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		cmd, err := DecodeCommand(data)
		if err != nil {
			s.log.Debug("ignoring message", "err", err)
			continue
		}
		s.engine.Do(cmd)
	}

	s.drop(c)
	s.log.Info("client disconnected", "remote", conn.RemoteAddr())
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.conn.Close()
}
