package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cardwar/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "session-updated",
			data:      `{"status":"playing"}`,
			expected:  "event: session-updated\ndata: {\"status\":\"playing\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "note",
			data:      "one\ntwo",
			expected:  "event: note\ndata: one\ndata: two\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "carriage returns dropped",
			eventName: "note",
			data:      "one\r\ntwo\r\n",
			expected:  "event: note\ndata: one\ndata: two\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "client channel closed")
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient(hub, 1)
	require.True(t, hub.Register(client))
	assert.Equal(t, 1, hub.ClientCount())

	hub.BroadcastEvent("session-updated", "data")
	assert.Equal(t, "event: session-updated\ndata: data\n\n", receive(t, client))
}

func TestHubBroadcastReachesEveryClient(t *testing.T) {
	hub := newRunningHub(t)

	a := NewClient(hub, 1)
	b := NewClient(hub, 2)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))

	hub.BroadcastEvent("x", "y")
	assert.Equal(t, "event: x\ndata: y\n\n", receive(t, a))
	assert.Equal(t, "event: x\ndata: y\n\n", receive(t, b))
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient(hub, 1)
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHubCloseDeliversQueuedMessages(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	client := NewClient(hub, 1)
	require.True(t, hub.Register(client))

	hub.BroadcastEvent("session-ended", "final")
	hub.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	msg, ok := <-client.send
	require.True(t, ok)
	assert.Equal(t, "event: session-ended\ndata: final\n\n", string(msg))
	_, ok = <-client.send
	assert.False(t, ok)
}

func TestHubRegisterAfterCloseFails(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	hub.Close()
	hub.Close()

	assert.False(t, hub.Register(NewClient(hub, 1)))
}

func TestHubManager(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())

	assert.Nil(t, m.GetHub("s1"))
	h1 := m.GetOrCreateHub("s1")
	assert.Same(t, h1, m.GetOrCreateHub("s1"))
	assert.Same(t, h1, m.GetHub("s1"))
	m.GetOrCreateHub("s2")
	assert.Equal(t, 2, m.HubCount())

	m.RemoveHub("s1")
	assert.Nil(t, m.GetHub("s1"))
	assert.False(t, h1.Register(NewClient(h1, 1)))

	assert.Equal(t, 1, m.CleanupEmptyHubs())
	assert.Equal(t, 0, m.HubCount())
}

func TestHubManagerCloseAll(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	hub := m.GetOrCreateHub("s1")
	client := NewClient(hub, 1)
	require.True(t, hub.Register(client))

	m.CloseAll()

	assert.Equal(t, 0, m.HubCount())
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-client.send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
