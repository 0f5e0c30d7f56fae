package server

import (
	"log/slog"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// socket wraps a websocket.Conn so that many goroutines can write to it.
// Writes block each other, and so do reads.
type socket struct {
	c       *websocket.Conn
	writeMu *sync.Mutex
	readMu  *sync.Mutex
}

func newSocket(c *websocket.Conn) socket {
	return socket{c, &sync.Mutex{}, &sync.Mutex{}}
}

func (s socket) ReadMessage() (int, []byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	return s.c.ReadMessage()
}

func (s socket) WriteMessage(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteMessage(messageType, data)
}

func (s socket) Close() error {
	return s.c.Close()
}

// hub tracks the connected rendering surfaces.
type hub struct {
	mu       sync.RWMutex
	sessions map[string]socket
	log      *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{sessions: make(map[string]socket), log: logger}
}

func (h *hub) add(c *websocket.Conn) (string, socket) {
	id := uuid.NewString()
	s := newSocket(c)
	h.mu.Lock()
	h.sessions[id] = s
	n := len(h.sessions)
	h.mu.Unlock()
	h.log.Info("websocket session opened", "session", id, "sessions", n)
	return id, s
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	n := len(h.sessions)
	h.mu.Unlock()
	if ok {
		s.Close()
		h.log.Info("websocket session closed", "session", id, "sessions", n)
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// broadcast sends msg to every session. Failed writes drop the session.
func (h *hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("encode broadcast", "err", err)
		return
	}

	h.mu.RLock()
	targets := make(map[string]socket, len(h.sessions))
	for id, s := range h.sessions {
		targets[id] = s
	}
	h.mu.RUnlock()

	for id, s := range targets {
		if err := s.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("websocket write failed", "session", id, "err", err)
			h.remove(id)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]socket)
	h.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
