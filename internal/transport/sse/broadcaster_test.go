package sse

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/snapshot"
	"github.com/mcoot/cardwar/internal/testutil"
)

func decodeView(t *testing.T, msg, event string) *snapshot.View {
	t.Helper()
	prefix := "event: " + event + "\ndata: "
	require.True(t, strings.HasPrefix(msg, prefix), "unexpected message %q", msg)
	var v snapshot.View
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(msg, prefix), "\n\n")), &v))
	return &v
}

func TestBroadcasterSessionUpdated(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(m, testutil.NopLogger())
	hub := m.GetOrCreateHub("s1")
	t.Cleanup(m.CloseAll)

	client := NewClient(hub, 1)
	require.True(t, hub.Register(client))

	b.SessionUpdated(&snapshot.View{SessionID: "s1", Status: model.SessionStatusPlaying, TurnCount: 3})

	v := decodeView(t, receive(t, client), string(model.EventSessionUpdated))
	assert.Equal(t, model.SessionStatusPlaying, v.Status)
	assert.Equal(t, 3, v.TurnCount)
}

func TestBroadcasterSessionEndedClosesHub(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(m, testutil.NopLogger())
	hub := m.GetOrCreateHub("s1")

	client := NewClient(hub, 1)
	require.True(t, hub.Register(client))

	winner := model.UserID(1)
	b.SessionEnded(&snapshot.View{SessionID: "s1", Status: model.SessionStatusFinished, WinnerUserID: &winner})

	v := decodeView(t, receive(t, client), string(model.EventSessionEnded))
	require.NotNil(t, v.WinnerUserID)
	assert.Equal(t, winner, *v.WinnerUserID)
	assert.Nil(t, m.GetHub("s1"))

	_, ok := <-client.send
	assert.False(t, ok)
}

func TestBroadcasterWithoutWatchersIsNoop(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(m, testutil.NopLogger())

	b.SessionUpdated(&snapshot.View{SessionID: "nobody"})
	b.SessionEnded(&snapshot.View{SessionID: "nobody"})
	assert.Equal(t, 0, m.HubCount())
}
