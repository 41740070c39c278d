package snapshot

import "github.com/mcoot/cardwar/internal/model"

// PlayerView is the public part of a seated player. Deck contents are never exposed.
type PlayerView struct {
	UserID      model.UserID `json:"user_id"`
	DisplayName string       `json:"display_name"`
	DeckCount   int          `json:"deck_count"`
}

// View is a transport-safe, read-only picture of a session
type View struct {
	SessionID         model.SessionID     `json:"session_id"`
	Status            model.SessionStatus `json:"status"`
	Player1           *PlayerView         `json:"player1"`
	Player2           *PlayerView         `json:"player2"`
	CurrentTurnUserID *model.UserID       `json:"current_turn_user_id"`
	WinnerUserID      *model.UserID       `json:"winner_user_id"`
	TurnCount         int                 `json:"turn_count"`
	CardsInPlay       int                 `json:"cards_in_play"`
	LastPlayed        []model.Card        `json:"last_played"`
}

// Project derives a View from a session. It never mutates the session.
func Project(s *model.Session) *View {
	v := &View{
		SessionID:   s.ID,
		Status:      s.Status,
		Player1:     projectPlayer(s.Player1),
		Player2:     projectPlayer(s.Player2),
		TurnCount:   s.TurnCount,
		CardsInPlay: len(s.CardsInPlay),
		LastPlayed:  lastPlayed(s.LastPlayed),
	}
	if s.CurrentTurn != nil {
		id := s.CurrentTurn.UserID
		v.CurrentTurnUserID = &id
	}
	if s.Winner != nil {
		id := s.Winner.UserID
		v.WinnerUserID = &id
	}
	return v
}

func projectPlayer(p *model.Player) *PlayerView {
	if p == nil {
		return nil
	}
	return &PlayerView{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		DeckCount:   p.Deck.Count(),
	}
}

// lastPlayed copies at most the two most recent face-up cards
func lastPlayed(cards []model.Card) []model.Card {
	if len(cards) > 2 {
		cards = cards[len(cards)-2:]
	}
	out := make([]model.Card, len(cards))
	copy(out, cards)
	return out
}

// HasPlayer reports whether the user holds a seat in the viewed session
func (v *View) HasPlayer(id model.UserID) bool {
	return (v.Player1 != nil && v.Player1.UserID == id) ||
		(v.Player2 != nil && v.Player2.UserID == id)
}

// IsFinished reports whether the viewed session is over
func (v *View) IsFinished() bool {
	return v.Status == model.SessionStatusFinished
}
