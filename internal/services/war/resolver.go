package war

import (
	"log/slog"

	"github.com/mcoot/cardwar/internal/model"
)

// FaceDownCards is how many hidden cards each player stakes per war round
const FaceDownCards = 3

// Result describes how a war was settled
type Result struct {
	// Winner took the table, or won the session if Finished is set
	Winner *model.Player
	// Rounds counts face-up comparisons, ties included
	Rounds int
	// Finished is set when a deck ran out mid-war
	Finished bool
}

// Resolver settles tied rounds
type Resolver struct {
	logger *slog.Logger
}

// New creates a new Resolver
func New(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With(slog.String("component", "war")),
	}
}

// Resolve plays war rounds until the face-up cards differ or a deck runs out.
// The session must be in War status with the tied cards already on the table.
func (r *Resolver) Resolve(s *model.Session) Result {
	for round := 1; ; round++ {
		for i := 0; i < FaceDownCards; i++ {
			if _, _, ok := DrawPair(s); !ok {
				return r.exhausted(s, round)
			}
		}

		c1, c2, ok := DrawPair(s)
		if !ok {
			return r.exhausted(s, round)
		}
		s.LastPlayed = []model.Card{c1, c2}

		if c1 == c2 {
			r.logger.Debug("war tied again",
				slog.String("session_id", string(s.ID)),
				slog.Int("round", round),
				slog.Int("card", int(c1)),
				slog.Int("cards_in_play", len(s.CardsInPlay)))
			continue
		}

		winner := s.Player1
		if c2 > c1 {
			winner = s.Player2
		}
		captured := len(s.CardsInPlay)
		s.Award(winner)

		r.logger.Debug("war decided",
			slog.String("session_id", string(s.ID)),
			slog.Int64("winner_id", int64(winner.UserID)),
			slog.Int("rounds", round),
			slog.Int("captured", captured))
		return Result{Winner: winner, Rounds: round}
	}
}

func (r *Resolver) exhausted(s *model.Session, round int) Result {
	r.logger.Debug("war ended by empty deck",
		slog.String("session_id", string(s.ID)),
		slog.Int64("winner_id", int64(s.Winner.UserID)),
		slog.Int("rounds", round))
	return Result{Winner: s.Winner, Rounds: round, Finished: true}
}

// DrawPair draws one card from each deck onto the table, player1 first.
// If a deck is empty the session finishes with the opponent as winner and
// ok is false. Player2 does not draw when player1 could not.
func DrawPair(s *model.Session) (c1, c2 model.Card, ok bool) {
	c1, ok = s.Player1.Deck.Draw()
	if !ok {
		s.Finish(s.Player2)
		return 0, 0, false
	}
	s.Put(c1)

	c2, ok = s.Player2.Deck.Draw()
	if !ok {
		s.Finish(s.Player1)
		return c1, 0, false
	}
	s.Put(c2)
	return c1, c2, true
}
