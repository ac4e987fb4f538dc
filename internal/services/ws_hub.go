package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"amora-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents an event pushed to a connected client
type WSMessage struct {
	Type    string      `json:"type"`
	Online  *bool       `json:"online,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and pushes partner events:
// pairing changes, new invitations and responses, new memories.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a connection for a user, replacing any previous one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's connection
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (h *WSHub) notify(userID string, message WSMessage) {
	if err := h.SendToUser(userID, message); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Str("type", message.Type).Msg("Dropped partner event")
	}
}

// NotifyPartnerStatus tells a user their partner went online or offline
func (h *WSHub) NotifyPartnerStatus(userID string, online bool) {
	h.notify(userID, WSMessage{Type: "partner_status", Online: &online})
}

// NotifyPaired tells a user their invite code was redeemed
func (h *WSHub) NotifyPaired(userID string, partner *models.PartnerInfo) {
	h.notify(userID, WSMessage{Type: "partner_paired", Data: partner})
}

// NotifyUnpaired tells a user the pairing link was cleared
func (h *WSHub) NotifyUnpaired(userID string) {
	h.notify(userID, WSMessage{Type: "partner_unpaired"})
}

// NotifyInvitationReceived pushes a fresh invitation to its recipient
func (h *WSHub) NotifyInvitationReceived(userID string, inv *models.Invitation) {
	h.notify(userID, WSMessage{Type: "invitation_received", Data: inv})
}

// NotifyInvitationResponse pushes the recipient's answer to the sender
func (h *WSHub) NotifyInvitationResponse(userID string, inv *models.Invitation) {
	h.notify(userID, WSMessage{Type: "invitation_response", Data: inv})
}

// NotifyMemoryAdded tells a user their partner added a memory
func (h *WSHub) NotifyMemoryAdded(userID string, memory *models.Memory) {
	h.notify(userID, WSMessage{Type: "memory_added", Data: memory})
}
