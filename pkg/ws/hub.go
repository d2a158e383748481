package ws

import (
	"errors"
	"sync"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var ErrUserOffline = errors.New("user has no active realtime session")

// IHub is the realtime notification channel: one group of live websocket
// sessions per user id, pushed to best-effort.
type IHub interface {
	Register(userID string, conn *websocket.Conn)
	Unregister(userID string, conn *websocket.Conn)
	SendToUser(userID string, payload interface{}) error
	IsOnline(userID string) bool
}

type hub struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	sessions map[string]map[*websocket.Conn]struct{}
}

func NewHub(log *logrus.Logger) IHub {
	return &hub{
		log:      log,
		sessions: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*websocket.Conn]struct{})
	}
	h.sessions[userID][conn] = struct{}{}

	h.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"sessions": len(h.sessions[userID]),
	}).Debug("Realtime session registered")
}

func (h *hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.sessions[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.sessions, userID)
		}
	}
}

func (h *hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID]) > 0
}

// SendToUser pushes one payload to every live session of the user. A dead
// session only loses its own copy.
func (h *hub) SendToUser(userID string, payload interface{}) error {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.sessions[userID]))
	for conn := range h.sessions[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return ErrUserOffline
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("Failed to push to realtime session")
			h.Unregister(userID, conn)
		}
	}

	return nil
}
