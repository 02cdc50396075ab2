package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks open websocket connections keyed by emergency ID so the
// requester can watch for professional responses in real time
type Hub struct {
	mu      sync.Mutex
	clients map[string][]*websocket.Conn
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string][]*websocket.Conn),
	}
}

// ServeWS upgrades the connection and registers it under the emergencyId
// query parameter
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	emergencyID := r.URL.Query().Get("emergencyId")
	if emergencyID == "" {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.clients[emergencyID] = append(h.clients[emergencyID], conn)
	h.mu.Unlock()
	zap.S().Debugw("requester connected for updates", "emergencyId", emergencyID)

	// drain the connection until the peer goes away
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}

	h.remove(emergencyID, conn)
	zap.S().Debugw("requester disconnected", "emergencyId", emergencyID)
}

// Broadcast sends event to every connection watching emergencyID. Broken
// connections are dropped; sending to an emergency with no watchers is a
// no-op.
func (h *Hub) Broadcast(emergencyID, event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var alive []*websocket.Conn
	for _, conn := range h.clients[emergencyID] {
		err := conn.WriteJSON(map[string]interface{}{
			"event": event,
			"data":  data,
		})
		if err != nil {
			zap.S().Warnw("failed to push update, dropping connection",
				"emergencyId", emergencyID,
				"error", err,
			)
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	if len(alive) == 0 {
		delete(h.clients, emergencyID)
		return
	}
	h.clients[emergencyID] = alive
}

func (h *Hub) remove(emergencyID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[emergencyID]
	for i, c := range conns {
		if c == conn {
			h.clients[emergencyID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.clients[emergencyID]) == 0 {
		delete(h.clients, emergencyID)
	}
}
