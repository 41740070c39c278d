package session

import (
	"log/slog"

	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/war"
)

// playRound plays one round for actor and reports whether the session
// changed. Must be called with the session lock held.
func (m *Manager) playRound(s *model.Session, actor model.UserID) (bool, error) {
	// War never outlives a single call, so only Playing accepts plays
	if s.Status != model.SessionStatusPlaying {
		return false, nil
	}
	acting := s.PlayerByUser(actor)
	if acting == nil || acting != s.CurrentTurn {
		m.logger.Debug("play out of turn ignored",
			slog.String("session_id", string(s.ID)),
			slog.Int64("user_id", int64(actor)))
		return false, nil
	}
	if s.Player1.Deck.IsEmpty() && s.Player2.Deck.IsEmpty() {
		return false, model.ErrCorruptSession
	}

	c1, c2, ok := war.DrawPair(s)
	if !ok {
		return true, nil
	}
	s.LastPlayed = []model.Card{c1, c2}

	switch {
	case c1 > c2:
		s.Award(s.Player1)
	case c2 > c1:
		s.Award(s.Player2)
	default:
		s.Status = model.SessionStatusWar
		if res := m.resolver.Resolve(s); res.Finished {
			return true, nil
		}
	}

	s.TurnCount++
	s.CheckEnd()

	m.logger.Debug("round played",
		slog.String("session_id", string(s.ID)),
		slog.Int("player1_card", int(c1)),
		slog.Int("player2_card", int(c2)),
		slog.Int("turn", s.TurnCount),
		slog.String("status", string(s.Status)))
	return true, nil
}
