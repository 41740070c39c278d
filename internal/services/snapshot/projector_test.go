package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cardwar/internal/model"
)

func playingSession() *model.Session {
	s := &model.Session{
		ID:      "sess-1",
		Player1: &model.Player{UserID: 10, DisplayName: "Alice", Deck: model.NewDeck(1, 2, 3)},
		Status:  model.SessionStatusWaiting,
	}
	s.Start(&model.Player{UserID: 20, DisplayName: "Bob", Deck: model.NewDeck(4, 5)})
	s.TurnCount = 7
	s.CardsInPlay = []model.Card{9, 9}
	s.LastPlayed = []model.Card{9, 9}
	return s
}

func TestProjectWaitingSession(t *testing.T) {
	s := &model.Session{
		ID:      "sess-1",
		Player1: &model.Player{UserID: 10, DisplayName: "Alice", Deck: model.NewStandardDeck()},
		Status:  model.SessionStatusWaiting,
	}

	v := Project(s)

	assert.Equal(t, model.SessionID("sess-1"), v.SessionID)
	assert.Equal(t, model.SessionStatusWaiting, v.Status)
	require.NotNil(t, v.Player1)
	assert.Equal(t, model.DeckSize, v.Player1.DeckCount)
	assert.Nil(t, v.Player2)
	assert.Nil(t, v.CurrentTurnUserID)
	assert.Nil(t, v.WinnerUserID)
	assert.Empty(t, v.LastPlayed)
}

func TestProjectPlayingSession(t *testing.T) {
	v := Project(playingSession())

	require.NotNil(t, v.Player2)
	assert.Equal(t, 3, v.Player1.DeckCount)
	assert.Equal(t, 2, v.Player2.DeckCount)
	require.NotNil(t, v.CurrentTurnUserID)
	assert.Equal(t, model.UserID(10), *v.CurrentTurnUserID)
	assert.Equal(t, 7, v.TurnCount)
	assert.Equal(t, 2, v.CardsInPlay)
	assert.Equal(t, []model.Card{9, 9}, v.LastPlayed)
	assert.True(t, v.HasPlayer(20))
	assert.False(t, v.HasPlayer(30))
}

func TestProjectFinishedSession(t *testing.T) {
	s := playingSession()
	s.Finish(s.Player2)

	v := Project(s)

	assert.True(t, v.IsFinished())
	require.NotNil(t, v.WinnerUserID)
	assert.Equal(t, model.UserID(20), *v.WinnerUserID)
}

func TestProjectIsIdempotentAndDoesNotMutate(t *testing.T) {
	s := playingSession()
	before := s.Player1.Deck.Cards()

	first := Project(s)
	second := Project(s)

	assert.Equal(t, first, second)
	assert.Equal(t, before, s.Player1.Deck.Cards())
	assert.Len(t, s.CardsInPlay, 2)
}

func TestProjectCopiesLastPlayed(t *testing.T) {
	s := playingSession()
	v := Project(s)
	s.LastPlayed[0] = 1

	assert.Equal(t, []model.Card{9, 9}, v.LastPlayed)
}
