package model

import "time"

// SessionID is an opaque unique session token
type SessionID string

// SessionStatus is the phase of a session
type SessionStatus string

const (
	SessionStatusWaiting  SessionStatus = "waiting"  // only player1 seated
	SessionStatusPlaying  SessionStatus = "playing"  // normal rounds
	SessionStatusWar      SessionStatus = "war"      // tie-break in progress
	SessionStatusFinished SessionStatus = "finished" // terminal
)

// MaxTurns is the turn cap after which a session resolves by deck size
const MaxTurns = 100

// Session is the authoritative state of one duel. It is only mutated by the
// session manager while holding that session's lock.
type Session struct {
	ID      SessionID
	Player1 *Player
	Player2 *Player // nil until someone joins
	Status  SessionStatus

	CurrentTurn *Player
	Winner      *Player
	TurnCount   int

	// Cards drawn in the undecided round or war, in draw order
	CardsInPlay []Card
	// Face-up cards of the most recent exchange, player1 then player2
	LastPlayed []Card

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerByUser returns the seated player with the given user id, or nil
func (s *Session) PlayerByUser(id UserID) *Player {
	if s.Player1 != nil && s.Player1.UserID == id {
		return s.Player1
	}
	if s.Player2 != nil && s.Player2.UserID == id {
		return s.Player2
	}
	return nil
}

// Opponent returns the other seated player, or nil
func (s *Session) Opponent(p *Player) *Player {
	switch p {
	case s.Player1:
		return s.Player2
	case s.Player2:
		return s.Player1
	}
	return nil
}

// IsFinished reports whether the session reached its terminal state
func (s *Session) IsFinished() bool {
	return s.Status == SessionStatusFinished
}

// Start seats the second player and begins play with player1 to act
func (s *Session) Start(p2 *Player) {
	s.Player2 = p2
	s.Status = SessionStatusPlaying
	s.CurrentTurn = s.Player1
	s.TurnCount = 0
}

// Finish ends the session with the given winner
func (s *Session) Finish(winner *Player) {
	s.Status = SessionStatusFinished
	s.Winner = winner
}

// Award gives every card in play to the winner, who takes the turn
func (s *Session) Award(winner *Player) {
	winner.Deck.AddCards(s.CardsInPlay)
	s.CardsInPlay = nil
	s.CurrentTurn = winner
	s.Status = SessionStatusPlaying
}

// Put moves a drawn card onto the table
func (s *Session) Put(c Card) {
	s.CardsInPlay = append(s.CardsInPlay, c)
}

// CheckEnd finishes the session if a deck ran out or the turn cap was hit.
// At the cap the larger deck wins and equal decks go to player1.
func (s *Session) CheckEnd() bool {
	if s.IsFinished() {
		return true
	}
	p1, p2 := s.Player1, s.Player2
	switch {
	case p1.Deck.IsEmpty():
		s.Finish(p2)
	case p2.Deck.IsEmpty():
		s.Finish(p1)
	case s.TurnCount >= MaxTurns:
		if p2.Deck.Count() > p1.Deck.Count() {
			s.Finish(p2)
		} else {
			s.Finish(p1)
		}
	default:
		return false
	}
	return true
}

// TotalCards counts every card owned by the session, decks and table
func (s *Session) TotalCards() int {
	n := len(s.CardsInPlay)
	if s.Player1 != nil {
		n += s.Player1.Deck.Count()
	}
	if s.Player2 != nil {
		n += s.Player2.Deck.Count()
	}
	return n
}

// Validate checks the structural invariants of the session
func (s *Session) Validate() error {
	if s.Player1 == nil {
		return ErrCorruptSession
	}
	waiting := s.Status == SessionStatusWaiting
	if waiting != (s.Player2 == nil) {
		return ErrCorruptSession
	}
	if waiting {
		if s.CurrentTurn != nil || s.Winner != nil {
			return ErrCorruptSession
		}
		return nil
	}
	if s.CurrentTurn != s.Player1 && s.CurrentTurn != s.Player2 {
		return ErrCorruptSession
	}
	if (s.Winner != nil) != s.IsFinished() {
		return ErrCorruptSession
	}
	if s.TurnCount < 0 || s.TurnCount > MaxTurns {
		return ErrCorruptSession
	}
	if s.TotalCards() != 2*DeckSize {
		return ErrCorruptSession
	}
	return nil
}
