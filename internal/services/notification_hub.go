package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"plates-console/internal/models"
	"plates-console/internal/repository"
	"plates-console/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteTimeout = 10 * time.Second

// HubMessage is a message pushed to the notification bell
type HubMessage struct {
	Type          string                 `json:"type"`
	UnreadCount   int                    `json:"unread_count"`
	Notifications []*models.Notification `json:"notifications,omitempty"`
	Message       string                 `json:"message,omitempty"`
}

type hubClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *hubClient) send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// NotificationHub polls the backend for unread notifications and pushes the
// result to every connected bell
type NotificationHub struct {
	mu          sync.RWMutex
	connections map[string]*hubClient
	latest      *models.NotificationList

	notifications *repository.NotificationRepository
	session       *session.Session
	interval      time.Duration
	refresh       chan struct{}
}

// NewNotificationHub creates a new hub polling every interval
func NewNotificationHub(notifications *repository.NotificationRepository, sess *session.Session, interval time.Duration) *NotificationHub {
	return &NotificationHub{
		connections:   make(map[string]*hubClient),
		notifications: notifications,
		session:       sess,
		interval:      interval,
		refresh:       make(chan struct{}, 1),
	}
}

// Register adds a connection and sends it the last known state. It returns
// the connection ID.
func (h *NotificationHub) Register(conn *websocket.Conn) string {
	id := uuid.New().String()
	client := &hubClient{conn: conn}

	h.mu.Lock()
	h.connections[id] = client
	latest := h.latest
	h.mu.Unlock()

	log.Info().Str("conn_id", id).Msg("Notification stream connected")

	if latest != nil {
		if err := h.sendTo(id, client, snapshotMessage(latest)); err != nil {
			log.Error().Err(err).Str("conn_id", id).Msg("Failed to send initial notifications")
		}
	}
	return id
}

// Unregister closes and removes a connection
func (h *NotificationHub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.connections[id]; exists {
		client.conn.Close()
		delete(h.connections, id)
		log.Info().Str("conn_id", id).Msg("Notification stream disconnected")
	}
}

// Connections returns the number of connected bells
func (h *NotificationHub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Latest returns the last polled state, or nil before the first poll
func (h *NotificationHub) Latest() *models.NotificationList {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Refresh asks the poller to fetch now. It never blocks.
func (h *NotificationHub) Refresh() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled, then closes every connection
func (h *NotificationHub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer h.closeAll()

	h.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-h.refresh:
		}
		h.poll(ctx)
	}
}

func (h *NotificationHub) poll(ctx context.Context) {
	if !h.session.IsAuthenticated() {
		h.mu.Lock()
		wasSet := h.latest != nil
		h.latest = nil
		h.mu.Unlock()
		if wasSet {
			h.Broadcast(HubMessage{Type: "logged_out"})
		}
		return
	}

	list, err := h.notifications.Unread(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("Failed to poll notifications")
		}
		return
	}

	h.mu.Lock()
	h.latest = list
	h.mu.Unlock()

	h.Broadcast(snapshotMessage(list))
}

func snapshotMessage(list *models.NotificationList) HubMessage {
	return HubMessage{
		Type:          "notifications",
		UnreadCount:   list.UnreadCount,
		Notifications: list.Notifications,
	}
}

// Broadcast sends a message to every connection. Connections that fail are
// dropped.
func (h *NotificationHub) Broadcast(message HubMessage) {
	h.mu.RLock()
	clients := make(map[string]*hubClient, len(h.connections))
	for id, c := range h.connections {
		clients[id] = c
	}
	h.mu.RUnlock()

	for id, c := range clients {
		if err := h.sendTo(id, c, message); err != nil {
			log.Error().Err(err).Str("conn_id", id).Msg("Failed to push notifications")
		}
	}
}

// SendTo sends a message to one connection
func (h *NotificationHub) SendTo(id string, message HubMessage) error {
	h.mu.RLock()
	client, exists := h.connections[id]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("connection %s is not registered", id)
	}
	return h.sendTo(id, client, message)
}

func (h *NotificationHub) sendTo(id string, client *hubClient, message HubMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := client.send(data); err != nil {
		h.Unregister(id)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (h *NotificationHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.connections {
		c.conn.Close()
		delete(h.connections, id)
	}
}
