package redis

import (
	"fmt"

	"github.com/mcoot/cardwar/internal/model"
)

// Key prefix for all cardwar data
const keyPrefix = "cardwar"

// roomStates lists every per-state room index
var roomStates = []model.RoomState{
	model.RoomStateWaiting,
	model.RoomStatePlaying,
	model.RoomStateFinished,
}

func userSeqKey() string {
	return keyPrefix + ":seq:user"
}

func roomSeqKey() string {
	return keyPrefix + ":seq:room"
}

func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

func registeredUserKey(id model.UserID) string {
	return fmt.Sprintf("%s:registered_user:%d", keyPrefix, id)
}

// usernameIndexKey maps a username to its user id
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%d", keyPrefix, id)
}

// roomBySessionKey maps a session id to the room wrapping it
func roomBySessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:idx:room_by_session:%s", keyPrefix, id)
}

// roomsByStateKey is the sorted set of room ids in a state, scored by id
func roomsByStateKey(state model.RoomState) string {
	return fmt.Sprintf("%s:rooms:%s", keyPrefix, state)
}
