package model

import "time"

// RoomID identifies a matchmaking room
type RoomID int64

// RoomState is where a room sits in the matchmaking registry
type RoomState string

const (
	RoomStateWaiting  RoomState = "waiting"  // host seated, open to join
	RoomStatePlaying  RoomState = "playing"  // both seats taken
	RoomStateFinished RoomState = "finished" // session decided
)

// RoomCapacity is the number of seats in every room
const RoomCapacity = 2

// Room is a matchmaking entry wrapping one session
type Room struct {
	ID        RoomID
	Name      string
	HostID    UserID
	HostName  string
	SessionID SessionID
	State     RoomState
	Players   int
	WinnerID  *UserID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull reports whether every seat is taken
func (r *Room) IsFull() bool {
	return r.Players >= RoomCapacity
}

// ValidRoomState reports whether s names a registry state
func ValidRoomState(s RoomState) bool {
	switch s {
	case RoomStateWaiting, RoomStatePlaying, RoomStateFinished:
		return true
	}
	return false
}
