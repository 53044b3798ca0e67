package utility

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// RefreshMessage tells a dashboard client to reload its readings.
const RefreshMessage = "REFRESH"

// writeWait bounds each notification write so a stalled client cannot hold
// the hub lock.
const writeWait = 5 * time.Second

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow CORS for development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub holds the open dashboard connections of each user. A user may have
// several tabs open, so every connection is tracked.
type Hub struct {
	mu        sync.Mutex
	clients   map[string]map[*websocket.Conn]struct{}
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]map[*websocket.Conn]struct{}),
		writeWait: writeWait,
	}
}

// RegisterClient adds a connection for userID.
func (h *Hub) RegisterClient(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[userID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.clients[userID] = conns
	}
	conns[conn] = struct{}{}
	log.Info().Str("user_id", userID).Int("connections", len(conns)).Msg("WebSocket Client Connected")
}

// UnregisterClient removes a connection (when the tab is closed).
func (h *Hub) UnregisterClient(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(userID, conn)
}

func (h *Hub) removeLocked(userID string, conn *websocket.Conn) {
	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
	log.Info().Str("user_id", userID).Msg("WebSocket Client Disconnected")
}

// ClientCount reports the open connections of userID.
func (h *Hub) ClientCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// NotifyReadingsChanged asks every open dashboard of userID to refresh.
// Connections that fail the write are closed and dropped.
func (h *Hub) NotifyReadingsChanged(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[userID] {
		err := conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, []byte(RefreshMessage))
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to send WS message, removing client")
			conn.Close()
			h.removeLocked(userID, conn)
		}
	}
}
