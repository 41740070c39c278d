package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cardwar/internal/api"
	"github.com/mcoot/cardwar/internal/api/response"
	"github.com/mcoot/cardwar/internal/cli"
	"github.com/mcoot/cardwar/internal/factory"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/snapshot"
	"github.com/mcoot/cardwar/internal/testutil"
)

// cliRunner drives the CLI command tree against a live server
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.exec(append([]string{"--token-file", r.tokenFile}, args...))
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	return r.exec(append([]string{"--token", token}, args...))
}

func (r *cliRunner) exec(args []string) (string, error) {
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", r.serverURL, "--output", "json"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

type testServer struct {
	app *factory.TestApp
	url string
}

// startTestServer serves the API over a real listener. Scripted randomness
// shuffles both decks identically, so the first card played ends the duel.
func startTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(nil)
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		RoomController: app.RoomController,
		SessionManager: app.SessionManager,
		HubManager:     app.HubManager,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		app.HubManager.CloseAll()
		srv.Close()
		_ = app.Close(context.Background())
	})

	return &testServer{app: app, url: srv.URL}
}

func decodeOutput[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), output)
	return v
}

func guest(t *testing.T, r *cliRunner, name string) response.AuthResponse {
	t.Helper()
	output, err := r.run("player", "guest", "--name", name)
	require.NoError(t, err, "output: %s", output)
	return decodeOutput[response.AuthResponse](t, output)
}

func post(t *testing.T, url, token string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func roomID(r response.Room) string {
	return strconv.FormatInt(int64(r.ID), 10)
}

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	output, err := runner.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decodeOutput[cli.HealthResult](t, output)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Sessions)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	auth := guest(t, runner, "Alice")
	assert.Equal(t, "Alice", auth.User.DisplayName)
	assert.True(t, auth.User.IsGuest)
	assert.NotEmpty(t, auth.Token)

	// token was saved to the token file
	output, err := runner.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	me := decodeOutput[response.User](t, output)
	assert.Equal(t, auth.User.ID, me.ID)

	output, err = runner.run("player", "register", "--name", "Bob", "--user", "bob", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)
	registered := decodeOutput[response.AuthResponse](t, output)
	assert.False(t, registered.User.IsGuest)

	output, err = runner.run("player", "login", "--user", "bob", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)
	loggedIn := decodeOutput[response.AuthResponse](t, output)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	alice := guest(t, runner, "Alice")

	output, err := runner.runWithToken(alice.Token, "room", "create", "--name", "Friday duel")
	require.NoError(t, err, "output: %s", output)
	room := decodeOutput[response.Room](t, output)
	assert.Equal(t, "Friday duel", room.Name)
	assert.Equal(t, model.RoomStateWaiting, room.State)
	assert.Equal(t, 1, room.Players)

	output, err = runner.runWithToken(alice.Token, "room", "get", roomID(room))
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, room.ID, decodeOutput[response.Room](t, output).ID)

	output, err = runner.runWithToken(alice.Token, "room", "list", "--page-size", "5")
	require.NoError(t, err, "output: %s", output)
	page := decodeOutput[response.RoomPage](t, output)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.PageSize)
	require.Len(t, page.Rooms, 1)
	assert.Equal(t, room.ID, page.Rooms[0].ID)
}

func TestCLI_FullSessionFlow(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	alice := guest(t, runner, "Alice")
	bob := guest(t, newCLIRunner(t, ts.url), "Bob")

	output, err := runner.runWithToken(alice.Token, "room", "create")
	require.NoError(t, err, "output: %s", output)
	room := decodeOutput[response.Room](t, output)
	assert.Equal(t, "Alice's room", room.Name)

	output, err = runner.runWithToken(bob.Token, "room", "join", roomID(room))
	require.NoError(t, err, "output: %s", output)
	joined := decodeOutput[response.JoinRoomResponse](t, output)
	assert.Equal(t, model.RoomStatePlaying, joined.Room.State)
	require.NotNil(t, joined.Session)
	assert.Equal(t, model.SessionStatusPlaying, joined.Session.Status)

	sessionID := string(room.SessionID)
	output, err = runner.runWithToken(alice.Token, "session", "get", sessionID)
	require.NoError(t, err, "output: %s", output)
	view := decodeOutput[snapshot.View](t, output)
	assert.Equal(t, model.DeckSize, view.Player1.DeckCount)

	output, err = runner.runWithToken(alice.Token, "session", "play", sessionID)
	require.NoError(t, err, "output: %s", output)
	view = decodeOutput[snapshot.View](t, output)
	assert.Equal(t, model.SessionStatusFinished, view.Status)
	require.NotNil(t, view.WinnerUserID)

	output, err = runner.runWithToken(alice.Token, "room", "get", roomID(room))
	require.NoError(t, err, "output: %s", output)
	finished := decodeOutput[response.Room](t, output)
	assert.Equal(t, model.RoomStateFinished, finished.State)
	assert.Equal(t, view.WinnerUserID, finished.WinnerID)

	// the finished session has been released
	output, err = runner.runWithToken(alice.Token, "session", "get", sessionID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}

func TestCLI_ForfeitAndEnd(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	alice := guest(t, runner, "Alice")
	bob := guest(t, newCLIRunner(t, ts.url), "Bob")

	output, err := runner.runWithToken(alice.Token, "room", "create")
	require.NoError(t, err, "output: %s", output)
	first := decodeOutput[response.Room](t, output)

	_, err = runner.runWithToken(bob.Token, "room", "join", roomID(first))
	require.NoError(t, err)

	output, err = runner.runWithToken(bob.Token, "session", "forfeit", string(first.SessionID))
	require.NoError(t, err, "output: %s", output)
	view := decodeOutput[snapshot.View](t, output)
	require.NotNil(t, view.WinnerUserID)
	assert.Equal(t, alice.User.ID, *view.WinnerUserID)

	output, err = runner.runWithToken(alice.Token, "room", "create")
	require.NoError(t, err, "output: %s", output)
	second := decodeOutput[response.Room](t, output)

	output, err = runner.runWithToken(alice.Token, "session", "end", string(second.SessionID))
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Session ended")

	// ending a waiting session removes its room
	_, err = runner.runWithToken(alice.Token, "room", "get", roomID(second))
	assert.Error(t, err)
}

func TestCLI_EventStream(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	alice := guest(t, runner, "Alice")
	bob := guest(t, newCLIRunner(t, ts.url), "Bob")

	output, err := runner.runWithToken(alice.Token, "room", "create")
	require.NoError(t, err, "output: %s", output)
	room := decodeOutput[response.Room](t, output)

	type result struct {
		output string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		out, err := runner.runWithToken(alice.Token, "events", string(room.SessionID), "--json")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(room.SessionID)
		return hub != nil && hub.ClientCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// plain HTTP while the stream runs, since CLI invocations share state
	post(t, ts.url+"/api/v1/rooms/"+roomID(room)+"/join", bob.Token)
	post(t, ts.url+"/api/v1/sessions/"+string(room.SessionID)+"/play", alice.Token)

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after the session finished")
	}
	require.NoError(t, res.err, "output: %s", res.output)

	var events []string
	for _, line := range strings.Split(strings.TrimSpace(res.output), "\n") {
		evt := decodeOutput[cli.SSEEvent](t, line)
		events = append(events, evt.Event)
	}
	assert.Equal(t, []string{
		string(model.EventConnected),
		string(model.EventSessionUpdated),
		string(model.EventSessionUpdated),
		string(model.EventSessionUpdated),
		string(model.EventSessionEnded),
	}, events)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	output, err := runner.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	alice := guest(t, runner, "Alice")

	output, err = runner.runWithToken(alice.Token, "room", "get", "9999")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	_, err = runner.runWithToken(alice.Token, "room", "get", "abc")
	assert.Error(t, err)
}
