package response

import (
	"time"

	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/auth"
	"github.com/mcoot/cardwar/internal/services/room"
	"github.com/mcoot/cardwar/internal/services/snapshot"
)

// User is an identity in API responses
type User struct {
	ID          model.UserID `json:"id"`
	DisplayName string       `json:"display_name"`
	IsGuest     bool         `json:"is_guest"`
}

// UserFromModel converts a model.User
func UserFromModel(u *model.User) User {
	return User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		IsGuest:     u.IsGuest,
	}
}

// AuthResponse is returned by the guest, register and login endpoints
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponseFromToken converts an issued token
func AuthResponseFromToken(t *auth.Token) AuthResponse {
	return AuthResponse{
		User:      UserFromModel(&t.User),
		Token:     t.Value,
		ExpiresAt: t.ExpiresAt,
	}
}

// Room is a matchmaking room in API responses
type Room struct {
	ID        model.RoomID    `json:"id"`
	Name      string          `json:"name"`
	HostID    model.UserID    `json:"host_id"`
	HostName  string          `json:"host_name"`
	SessionID model.SessionID `json:"session_id"`
	State     model.RoomState `json:"state"`
	Players   int             `json:"players"`
	Capacity  int             `json:"capacity"`
	WinnerID  *model.UserID   `json:"winner_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	return Room{
		ID:        r.ID,
		Name:      r.Name,
		HostID:    r.HostID,
		HostName:  r.HostName,
		SessionID: r.SessionID,
		State:     r.State,
		Players:   r.Players,
		Capacity:  model.RoomCapacity,
		WinnerID:  r.WinnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RoomPage is one page of GET /rooms
type RoomPage struct {
	Rooms    []Room          `json:"rooms"`
	State    model.RoomState `json:"state"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
}

// RoomPageFromModel converts a room listing page
func RoomPageFromModel(p *room.Page) RoomPage {
	rooms := make([]Room, len(p.Rooms))
	for i, r := range p.Rooms {
		rooms[i] = RoomFromModel(r)
	}
	return RoomPage{
		Rooms:    rooms,
		State:    p.State,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
	}
}

// JoinRoomResponse is returned by POST /rooms/{id}/join
type JoinRoomResponse struct {
	Room    Room           `json:"room"`
	Session *snapshot.View `json:"session"`
}
