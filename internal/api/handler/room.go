package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crossfire-game/crossfire-go/internal/api/apierr"
	"github.com/crossfire-game/crossfire-go/internal/api/request"
	"github.com/crossfire-game/crossfire-go/internal/api/response"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms room.ServiceInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ServiceInterface) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.HostName == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("host_name is required"))
		return
	}

	language, err := parseLanguage(req.Language)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	categories := make([]model.Category, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = model.Category(c)
	}

	created, err := h.rooms.Create(r.Context(), room.CreateParams{
		HostName:   req.HostName,
		Categories: categories,
		Language:   language,
		PuzzleID:   model.PuzzleID(req.PuzzleID),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	found, err := h.rooms.GetByCode(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(found))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.GuestName == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("guest_name is required"))
		return
	}

	joined, err := h.rooms.Join(r.Context(), code, req.GuestName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(joined))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.LeaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	role, err := parseRole(req.Role)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	found, err := h.rooms.GetByCode(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.rooms.Leave(r.Context(), found.ID, role); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func parseLanguage(s string) (model.Language, error) {
	switch model.Language(s) {
	case model.LanguageEnglish, model.LanguageSpanish:
		return model.Language(s), nil
	case "":
		return model.LanguageEnglish, nil
	default:
		return "", apierr.NewInvalidRequestError("language must be en or es")
	}
}

func parseRole(s string) (model.PlayerRole, error) {
	switch model.PlayerRole(s) {
	case model.RoleHost, model.RoleGuest:
		return model.PlayerRole(s), nil
	default:
		return "", apierr.NewInvalidRequestError("role must be host or guest")
	}
}
