package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crossfire-game/crossfire-go/internal/api/apierr"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/relay"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

// WSHandler attaches websocket connections to a room's relay hub
type WSHandler struct {
	rooms  room.ServiceInterface
	hubs   *relay.HubManager
	logger *slog.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(rooms room.ServiceInterface, hubs *relay.HubManager, logger *slog.Logger) *WSHandler {
	return &WSHandler{rooms: rooms, hubs: hubs, logger: logger}
}

// Connect handles GET /api/v1/rooms/{code}/ws?user_id=...&role=host|guest
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("user_id is required"))
		return
	}

	role, err := parseRole(r.URL.Query().Get("role"))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	found, err := h.rooms.GetByCode(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	conn, err := transport.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	bus := transport.NewWebsocketBus(conn, h.logger)
	hub := h.hubs.GetOrCreateHub(found.ID)
	hub.Attach(userID, role, bus)

	h.logger.Info("websocket attached",
		slog.String("room_id", found.ID),
		slog.String("user_id", userID),
		slog.String("role", string(role)))
}
