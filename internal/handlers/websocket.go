package handlers

import (
	"encoding/json"
	"net/http"

	"nalia-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Tables whose subscriptions are always pinned to the caller's own rows
var ownRowTables = map[string]string{
	"notifications":   "user_id",
	"direct_messages": "user_id",
}

// WebSocketHandler owns the change-feed channel endpoint
type WebSocketHandler struct {
	hub         *services.FeedHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.FeedHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
	}
}

// clientMessage is what clients send over the feed channel
type clientMessage struct {
	Type   string `json:"type"`
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.userService.ValidateJWT(token)
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

	log.Info().Str("user_id", userID).Msg("Feed channel established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("Feed channel error")
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendError(userID, "Invalid message format")
			continue
		}

		if err := h.handleMessage(userID, msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to handle feed message")
			h.sendError(userID, err.Error())
		}
	}
}

func (h *WebSocketHandler) handleMessage(userID string, msg clientMessage) error {
	switch msg.Type {
	case "subscribe":
		sub := services.Subscription{Table: msg.Table, Column: msg.Column, Value: msg.Value}
		// Per-user tables always filter on the caller's own id, whatever
		// the client asked for.
		if col, ok := ownRowTables[msg.Table]; ok {
			sub.Column = col
			sub.Value = userID
		}
		if err := h.hub.Subscribe(userID, sub); err != nil {
			return err
		}
		return h.hub.SendToUser(userID, services.FeedMessage{Type: "subscribed", Table: msg.Table})
	case "unsubscribe":
		h.hub.Unsubscribe(userID, msg.Table)
		return h.hub.SendToUser(userID, services.FeedMessage{Type: "unsubscribed", Table: msg.Table})
	default:
		return h.hub.SendToUser(userID, services.FeedMessage{Type: "error", Message: "Unknown message type"})
	}
}

func (h *WebSocketHandler) sendError(userID, message string) {
	if err := h.hub.SendToUser(userID, services.FeedMessage{Type: "error", Message: message}); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send feed error")
	}
}
