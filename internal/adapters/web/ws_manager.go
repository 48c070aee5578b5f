package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		slog.Warn("WebSocket rejected origin", "origin", origin)
		return false
	},
}

// WSMessage is the envelope pushed to connected frontends.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSManager pushes detected threats to connected WebSocket clients. It
// implements ports.ThreatSink; PublishThreat enqueues and never blocks the
// detection pass.
type WSManager struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	queue   chan domain.DetectedThreat
}

// NewWSManager creates a manager with an outbound queue of the given size.
func NewWSManager(queueSize int) *WSManager {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &WSManager{
		clients: make(map[*websocket.Conn]bool),
		queue:   make(chan domain.DetectedThreat, queueSize),
	}
}

// Start launches the broadcast pump. It returns immediately.
func (m *WSManager) Start(ctx context.Context) {
	go m.pump(ctx)
}

// PublishThreat enqueues a threat for broadcast. Drops the event if the
// queue is full so a slow client never stalls detection.
func (m *WSManager) PublishThreat(threat domain.DetectedThreat) {
	select {
	case m.queue <- threat:
	default:
		slog.Warn("WebSocket queue full, dropping threat event", "type", threat.Type)
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = true
	m.mu.Unlock()

	slog.Info("WebSocket client connected", "remote", r.RemoteAddr)

	// Clients never send application data; this read loop only detects the
	// close handshake.
	go func() {
		defer conn.Close()
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
			slog.Info("WebSocket client disconnected", "remote", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (m *WSManager) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case threat := <-m.queue:
			m.broadcast(WSMessage{Type: "threat", Payload: threat})
		}
	}
}

func (m *WSManager) broadcast(msg WSMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
