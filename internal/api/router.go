package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cardwar/internal/api/handler"
	"github.com/mcoot/cardwar/internal/api/middleware"
	"github.com/mcoot/cardwar/internal/api/response"
	"github.com/mcoot/cardwar/internal/services/auth"
	"github.com/mcoot/cardwar/internal/services/room"
	"github.com/mcoot/cardwar/internal/services/session"
	"github.com/mcoot/cardwar/internal/transport/sse"
)

// RouterConfig holds the collaborators the API routes need
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController *room.Controller
	SessionManager *session.Manager
	// HubManager enables the event stream and live pushes when set
	HubManager *sse.HubManager
}

// NewRouter builds the /api/v1 router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.HubManager, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.SessionManager, cfg.RoomController, cfg.HubManager, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler(cfg.SessionManager)).Methods(http.MethodGet)

	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("/{id:[0-9]+}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id:[0-9]+}/join", roomHandler.Join).Methods(http.MethodPost)

	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/play", sessionHandler.Play).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/forfeit", sessionHandler.Forfeit).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/events", sessionHandler.Events).Methods(http.MethodGet)

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func healthHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: sessions.Count()})
	}
}
