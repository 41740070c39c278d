package storage

import (
	"context"

	"github.com/mcoot/cardwar/internal/model"
)

// Storage defines the interface for data persistence.
// Live sessions are never stored; they belong to the session manager.
type Storage interface {
	// User operations
	NextUserID(ctx context.Context) (model.UserID, error)
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)

	// Registered user operations
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Room operations
	NextRoomID(ctx context.Context) (model.RoomID, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	GetRoomBySession(ctx context.Context, sessionID model.SessionID) (*model.Room, error)
	// ListRooms returns rooms in the given state oldest first
	ListRooms(ctx context.Context, state model.RoomState, offset, limit int) ([]*model.Room, error)
	CountRooms(ctx context.Context, state model.RoomState) (int, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
}
