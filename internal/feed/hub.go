// Package feed streams world snapshots to read-only presentation clients over websockets.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/simulation"
	"go.uber.org/zap"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub fans every broadcast snapshot out to the connected clients.
// Clients cannot send commands; anything they write is discarded.
type Hub struct {
	log     *zap.Logger
	clients map[*websocket.Conn]bool
	latest  []byte
	mu      sync.Mutex
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{log: log, clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	if h.latest != nil {
		h.write(conn, h.latest)
	}
	h.mu.Unlock()
	h.log.Debug("feed client connected", zap.String("remote", conn.RemoteAddr().String()))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

// Broadcast sends s to every client. Clients that cannot keep up are disconnected.
func (h *Hub) Broadcast(s *simulation.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for conn := range h.clients {
		h.write(conn, data)
	}
	return nil
}

// Run broadcasts snapshots until ctx is done or the channel is closed.
func (h *Hub) Run(ctx context.Context, snapshots <-chan *simulation.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case s, ok := <-snapshots:
			if !ok {
				h.closeAll()
				return nil
			}
			if err := h.Broadcast(s); err != nil {
				return err
			}
		}
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// write must be called with h.mu held.
func (h *Hub) write(conn *websocket.Conn, data []byte) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Debug("dropping feed client", zap.Error(err))
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
