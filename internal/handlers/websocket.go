package handlers

import (
	"encoding/json"
	"net/http"
	"slices"

	"plates-console/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// clientMessage is a message sent by the bell
type clientMessage struct {
	Type string `json:"type"`
}

// WebSocketHandler streams notification updates to the bell
type WebSocketHandler struct {
	hub      *services.NotificationHub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler. Browser connections
// are accepted only from allowedOrigins; an empty list allows any origin.
func NewWebSocketHandler(hub *services.NotificationHub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// HandleWebSocket handles GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	id := h.hub.Register(conn)
	defer h.hub.Unregister(id)

	// A fresh bell wants the current count
	h.hub.Refresh()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("conn_id", id).Msg("WebSocket error")
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Str("conn_id", id).Msg("Failed to parse WebSocket message")
			h.sendError(id, "Invalid message format")
			continue
		}

		switch msg.Type {
		case "refresh":
			h.hub.Refresh()
		case "ping":
			if err := h.hub.SendTo(id, services.HubMessage{Type: "pong"}); err != nil {
				log.Error().Err(err).Str("conn_id", id).Msg("Failed to send pong")
			}
		default:
			h.sendError(id, "Unknown message type")
		}
	}
}

func (h *WebSocketHandler) sendError(id, message string) {
	if err := h.hub.SendTo(id, services.HubMessage{Type: "error", Message: message}); err != nil {
		log.Error().Err(err).Str("conn_id", id).Msg("Failed to send error message")
	}
}
