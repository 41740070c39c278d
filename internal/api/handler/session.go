package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cardwar/internal/api/middleware"
	"github.com/mcoot/cardwar/internal/api/response"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/room"
	"github.com/mcoot/cardwar/internal/services/session"
	"github.com/mcoot/cardwar/internal/services/snapshot"
	"github.com/mcoot/cardwar/internal/transport/sse"
)

// SessionHandler handles in-play endpoints and the event stream
type SessionHandler struct {
	sessions    *session.Manager
	rooms       *room.Controller
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, rooms *room.Controller, hubManager *sse.HubManager, logger *slog.Logger) *SessionHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &SessionHandler{
		sessions:    sessions,
		rooms:       rooms,
		hubManager:  hubManager,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "session-handler")),
	}
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.GetSession(sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

// Play handles POST /api/v1/sessions/{id}/play
func (h *SessionHandler) Play(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	user := middleware.MustGetUser(r.Context())

	current, err := h.sessions.GetSession(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !current.HasPlayer(user.ID) {
		WriteError(w, model.ErrNotParticipant)
		return
	}

	view, err := h.sessions.PlayCard(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	// An ignored play hands back the same published view
	if view != current {
		h.publish(r.Context(), view)
	}
	response.JSON(w, http.StatusOK, view)
}

// Forfeit handles POST /api/v1/sessions/{id}/forfeit
func (h *SessionHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	view, err := h.sessions.Forfeit(r.Context(), sessionID(r), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(r.Context(), view)
	response.JSON(w, http.StatusOK, view)
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	user := middleware.MustGetUser(r.Context())

	view, err := h.sessions.GetSession(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !view.HasPlayer(user.ID) {
		WriteError(w, model.ErrNotParticipant)
		return
	}

	if err := h.sessions.EndSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.rooms.SessionEnded(r.Context(), id); err != nil {
		h.logger.Error("failed to close room for ended session",
			slog.String("session_id", string(id)),
			slog.Any("error", err))
	}
	if h.broadcaster != nil {
		h.broadcaster.SessionEnded(view)
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{id}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		WriteError(w, NewInvalidRequestError("event streaming is disabled"))
		return
	}

	id := sessionID(r)
	user := middleware.MustGetUser(r.Context())

	view, err := h.sessions.GetSession(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	initial, err := sse.EncodeEvent(model.EventSessionUpdated, view)
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id), user.ID, initial)
}

// publish pushes a fresh view to watchers. A finished session is recorded on
// its room and then dropped from the engine.
func (h *SessionHandler) publish(ctx context.Context, view *snapshot.View) {
	if h.broadcaster != nil {
		h.broadcaster.SessionUpdated(view)
	}
	if !view.IsFinished() {
		return
	}

	if err := h.rooms.SessionFinished(ctx, view); err != nil {
		h.logger.Error("failed to record session result",
			slog.String("session_id", string(view.SessionID)),
			slog.Any("error", err))
	}
	if err := h.sessions.EndSession(ctx, view.SessionID); err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		h.logger.Error("failed to end finished session",
			slog.String("session_id", string(view.SessionID)),
			slog.Any("error", err))
	}
	if h.broadcaster != nil {
		h.broadcaster.SessionEnded(view)
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}
