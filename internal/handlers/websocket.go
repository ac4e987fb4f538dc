package handlers

import (
	"net/http"

	"amora-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades client connections and keeps them registered
// with the hub. The socket is notify-only: the server pushes partner
// events, clients only send pings.
type WebSocketHandler struct {
	hub         *services.WSHub
	authService *services.AuthService
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, authService *services.AuthService, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		userService: userService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.authService.ValidateToken(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	// Tell the partner we came online, and them when we leave.
	ctx := r.Context()
	partnerID := ""
	if profile, err := h.userService.GetProfile(ctx, userID); err == nil && profile.Partner != nil {
		partnerID = profile.Partner.ID
		if h.hub.IsOnline(partnerID) {
			h.hub.NotifyPartnerStatus(partnerID, true)
			h.hub.NotifyPartnerStatus(userID, true)
		}
	}
	defer func() {
		if partnerID != "" && h.hub.IsOnline(partnerID) {
			h.hub.NotifyPartnerStatus(partnerID, false)
		}
	}()

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}
		// Inbound frames carry no commands; reads only keep the
		// connection alive and detect disconnects.
	}
}
