package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/cardwar/internal/api/request"
	"github.com/mcoot/cardwar/internal/api/response"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/room"
	"github.com/mcoot/cardwar/internal/transport/sse"
)

// RoomHandler handles matchmaking endpoints
type RoomHandler struct {
	rooms       *room.Controller
	broadcaster *sse.Broadcaster
}

// NewRoomHandler creates a new room handler. hubManager may be nil, in which
// case joins are not pushed to watchers.
func NewRoomHandler(rooms *room.Controller, hubManager *sse.HubManager, logger *slog.Logger) *RoomHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &RoomHandler{
		rooms:       rooms,
		broadcaster: broadcaster,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	rm, err := h.rooms.CreateRoom(r.Context(), participant(r), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.RoomFromModel(rm))
}

// List handles GET /api/v1/rooms?state=&page=&page_size=
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"))
	if err != nil {
		WriteError(w, NewInvalidRequestError("page must be a number"))
		return
	}
	pageSize, err := intParam(q.Get("page_size"))
	if err != nil {
		WriteError(w, NewInvalidRequestError("page_size must be a number"))
		return
	}

	p, err := h.rooms.ListRooms(r.Context(), model.RoomState(q.Get("state")), page, pageSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomPageFromModel(p))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	rm, err := h.rooms.GetRoom(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := roomID(w, r)
	if !ok {
		return
	}

	rm, view, err := h.rooms.JoinRoom(r.Context(), id, participant(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.SessionUpdated(view)
	}

	response.JSON(w, http.StatusOK, response.JoinRoomResponse{
		Room:    response.RoomFromModel(rm),
		Session: view,
	})
}

func roomID(w http.ResponseWriter, r *http.Request) (model.RoomID, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid room id"))
		return 0, false
	}
	return model.RoomID(id), true
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
