package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
)

var (
	streamClients   = make(map[*websocket.Conn]bool)
	streamClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type StatusChangeEvent struct {
	Type      string `json:"type"`
	ServiceID uint   `json:"service_id"`
	Service   string `json:"service"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// BroadcastStatusChange pushes a service transition to every connected
// status page client. Wired as the monitor runner's change hook and called
// directly on manual overrides.
func BroadcastStatusChange(svc models.Service, oldStatus, newStatus types.ServiceStatus) {
	streamClientsMu.RLock()
	if len(streamClients) == 0 {
		streamClientsMu.RUnlock()
		return
	}

	clients := make([]*websocket.Conn, 0, len(streamClients))
	for conn := range streamClients {
		clients = append(clients, conn)
	}
	streamClientsMu.RUnlock()

	event := StatusChangeEvent{
		Type:      "status_change",
		ServiceID: svc.ID,
		Service:   svc.Name,
		OldStatus: oldStatus.String(),
		NewStatus: newStatus.String(),
	}

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			logger.WithError(err).Debug("Dropping status stream client")

			streamClientsMu.Lock()
			delete(streamClients, conn)
			streamClientsMu.Unlock()
			conn.Close()
		}
	}
}

// StatusStream upgrades the request to a websocket and streams status
// transitions until the client goes away. Public.
func StatusStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	streamClientsMu.Lock()
	streamClients[conn] = true
	streamClientsMu.Unlock()

	defer func() {
		streamClientsMu.Lock()
		delete(streamClients, conn)
		streamClientsMu.Unlock()
		conn.Close()
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	if err := conn.WriteJSON(map[string]string{"type": "connected"}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithError(err).Debug("Status stream read error")
			}
			break
		}
	}
}
