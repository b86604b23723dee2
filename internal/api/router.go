package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crossfire-game/crossfire-go/internal/api/handler"
	"github.com/crossfire-game/crossfire-go/internal/api/middleware"
	"github.com/crossfire-game/crossfire-go/internal/api/response"
	"github.com/crossfire-game/crossfire-go/internal/relay"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	RoomService room.ServiceInterface
	HubManager  *relay.HubManager

	// BaseURL is the externally visible URL encoded into join QR codes.
	// Empty means derive it from the request.
	BaseURL string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomService)
	qrHandler := handler.NewQRHandler(cfg.RoomService)
	qrHandler.BaseURL = cfg.BaseURL
	wsHandler := handler.NewWSHandler(cfg.RoomService, cfg.HubManager, cfg.Logger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/qr", qrHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/ws", wsHandler.Connect).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
