package petsite

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	liveReloadPath       = "/__livereload"
	liveReloadScriptPath = "/__livereload.js"
	reloadMessage        = "reload"
	writeWait            = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ReloadHub tracks live reload websocket clients and tells them to reload
// after a rebuild.
type ReloadHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	metrics *Metrics
	log     *slog.Logger
}

// NewReloadHub creates an empty hub.
func NewReloadHub(m *Metrics, log *slog.Logger) *ReloadHub {
	if log == nil {
		log = slog.Default()
	}
	return &ReloadHub{clients: make(map[*websocket.Conn]struct{}), metrics: m, log: log}
}

// ServeHTTP upgrades the request and holds the connection until the
// client goes away.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("livereload upgrade", "error", err)
		return
	}
	h.add(conn)
	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("livereload read", "error", err)
			}
			return
		}
	}
}

func (h *ReloadHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetReloadClients(n)
}

func (h *ReloadHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetReloadClients(n)
}

// Len returns the number of connected clients.
func (h *ReloadHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends "reload" to every client, dropping those that fail.
func (h *ReloadHub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			h.log.Debug("livereload write", "error", err)
			delete(h.clients, c)
			c.Close()
		}
	}
	h.metrics.SetReloadClients(len(h.clients))
}

// Close disconnects every client.
func (h *ReloadHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		c.Close()
		delete(h.clients, c)
	}
	h.metrics.SetReloadClients(0)
}
