package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/crossfire-game/crossfire-go/internal/api/apierr"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
)

const (
	defaultQRSize = 320
	maxQRSize     = 1024
)

// QRHandler serves a scannable join link for a room
type QRHandler struct {
	rooms room.ServiceInterface

	// BaseURL overrides the scheme and host derived from the request,
	// for deployments behind a proxy
	BaseURL string
}

// NewQRHandler creates a new QR handler
func NewQRHandler(rooms room.ServiceInterface) *QRHandler {
	return &QRHandler{rooms: rooms}
}

// Get handles GET /api/v1/rooms/{code}/qr
func (h *QRHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	if _, err := h.rooms.GetByCode(r.Context(), code); err != nil {
		apierr.WriteError(w, err)
		return
	}

	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed <= 0 || parsed > maxQRSize {
			apierr.WriteError(w, apierr.NewInvalidRequestError("size must be between 1 and 1024"))
			return
		}
		size = parsed
	}

	png, err := qrcode.Encode(h.joinURL(r, code), qrcode.Medium, size)
	if err != nil {
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *QRHandler) joinURL(r *http.Request, code model.RoomCode) string {
	base := h.BaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + string(code)
}
