package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/cardwar/internal/dependencies/clock"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/session"
	"github.com/mcoot/cardwar/internal/services/snapshot"
	"github.com/mcoot/cardwar/internal/storage"
)

const (
	// DefaultPageSize is used when a listing asks for no page size
	DefaultPageSize = 20
	// MaxPageSize caps a single listing page
	MaxPageSize = 100
)

// Page is one page of a room listing
type Page struct {
	Rooms    []*model.Room
	State    model.RoomState
	Page     int // 1-based
	PageSize int
	Total    int
}

// Controller is the matchmaking registry. Every room wraps one engine session.
type Controller struct {
	storage  storage.Storage
	sessions *session.Manager
	clock    clock.Clock
	logger   *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	sessions *session.Manager,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		sessions: sessions,
		clock:    clock,
		logger:   logger.With(slog.String("component", "room")),
	}
}

// CreateRoom opens a room with host seated in a new Waiting session
func (c *Controller) CreateRoom(ctx context.Context, host model.Participant, name string) (*model.Room, error) {
	if name == "" {
		name = host.DisplayName + "'s room"
	}

	id, err := c.storage.NextRoomID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate room id: %w", err)
	}

	sessionID, err := c.sessions.CreateSession(ctx, host)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:        id,
		Name:      name,
		HostID:    host.UserID,
		HostName:  host.DisplayName,
		SessionID: sessionID,
		State:     model.RoomStateWaiting,
		Players:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		_ = c.sessions.EndSession(ctx, sessionID)
		return nil, err
	}

	c.logger.Info("room created",
		slog.Int64("room_id", int64(id)),
		slog.String("session_id", string(sessionID)),
		slog.Int64("host_id", int64(host.UserID)))
	return room, nil
}

// GetRoom returns a room by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// ListRooms returns a page of rooms in the given state, oldest first
func (c *Controller) ListRooms(ctx context.Context, state model.RoomState, page, pageSize int) (*Page, error) {
	if state == "" {
		state = model.RoomStateWaiting
	}
	if !model.ValidRoomState(state) {
		return nil, model.ErrInvalidState
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	rooms, err := c.storage.ListRooms(ctx, state, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := c.storage.CountRooms(ctx, state)
	if err != nil {
		return nil, err
	}

	return &Page{
		Rooms:    rooms,
		State:    state,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// JoinRoom seats p in the room's session and starts play
func (c *Controller) JoinRoom(ctx context.Context, id model.RoomID, p model.Participant) (*model.Room, *snapshot.View, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if room.State != model.RoomStateWaiting {
		return nil, nil, model.ErrRoomNotWaiting
	}

	view, err := c.sessions.JoinSession(ctx, room.SessionID, p)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			// Session went away under the room
			_ = c.storage.DeleteRoom(ctx, id)
			return nil, nil, model.ErrRoomNotFound
		}
		return nil, nil, err
	}

	room.State = model.RoomStatePlaying
	room.Players = model.RoomCapacity
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, nil, err
	}

	c.logger.Info("room joined",
		slog.Int64("room_id", int64(id)),
		slog.Int64("user_id", int64(p.UserID)))
	return room, view, nil
}

// SessionFinished records the outcome of a room's session.
// Sessions without a room are ignored.
func (c *Controller) SessionFinished(ctx context.Context, view *snapshot.View) error {
	room, err := c.storage.GetRoomBySession(ctx, view.SessionID)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	room.State = model.RoomStateFinished
	room.WinnerID = view.WinnerUserID
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.logger.Info("room finished", slog.Int64("room_id", int64(room.ID)))
	return nil
}

// SessionEnded reacts to a session leaving the engine. A room that never
// filled is closed; any other room is marked finished.
func (c *Controller) SessionEnded(ctx context.Context, sessionID model.SessionID) error {
	room, err := c.storage.GetRoomBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if room.State == model.RoomStateWaiting {
		c.logger.Info("room closed", slog.Int64("room_id", int64(room.ID)))
		return c.storage.DeleteRoom(ctx, room.ID)
	}
	if room.State == model.RoomStateFinished {
		return nil
	}

	room.State = model.RoomStateFinished
	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}
