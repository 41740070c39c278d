package model

import (
	"strconv"
	"time"
)

// UserID is the numeric account identifier issued by the identity provider
type UserID int64

// String returns the decimal form of the id
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseUserID parses a decimal user id
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return UserID(n), nil
}

// User is an account known to the identity provider
type User struct {
	ID          UserID
	DisplayName string
	IsGuest     bool // true for accounts without credentials
	CreatedAt   time.Time
}

// RegisteredUser holds the credentials of a non-guest account.
// Kept apart from User so password hashes never travel with identities.
type RegisteredUser struct {
	UserID       UserID
	Username     string // immutable login name
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Participant is what a caller supplies when adding someone to a session
type Participant struct {
	UserID      UserID
	DisplayName string
	Address     string // transport address notifications are routed to
}

// Player is a participant seated in a session. Owned by that session.
type Player struct {
	UserID      UserID
	DisplayName string
	Address     string
	Deck        *Deck
}

// NewPlayer seats a participant with a freshly initialized and shuffled deck
func NewPlayer(p Participant, rnd Intner) *Player {
	deck := NewStandardDeck()
	deck.Shuffle(rnd)
	return &Player{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Address:     p.Address,
		Deck:        deck,
	}
}
