package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/cardwar/internal/api/response"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/snapshot"
)

// HealthResult is the body of GET /health
type HealthResult struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Output renders results as text or JSON
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print renders data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	o.printText(data)
}

// PrintMessage renders a one-line status message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, msg)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printUser(v.User)
		fmt.Fprintf(o.w, "Token: %s\n", v.Token)
		fmt.Fprintf(o.w, "Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04:05"))
	case response.Room:
		o.printRoom(v)
	case response.RoomPage:
		o.printRoomPage(v)
	case response.JoinRoomResponse:
		o.printRoom(v.Room)
		if v.Session != nil {
			fmt.Fprintln(o.w)
			o.printView(*v.Session)
		}
	case snapshot.View:
		o.printView(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Live sessions: %d\n", v.Sessions)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printUser(u response.User) {
	guest := "no"
	if u.IsGuest {
		guest = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%d)\n", u.DisplayName, u.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guest)
}

func (o *Output) printRoom(r response.Room) {
	fmt.Fprintf(o.w, "Room: %s (%d)\n", r.Name, r.ID)
	fmt.Fprintf(o.w, "Host: %s (%d)\n", r.HostName, r.HostID)
	fmt.Fprintf(o.w, "State: %s\n", r.State)
	fmt.Fprintf(o.w, "Players: %d/%d\n", r.Players, r.Capacity)
	fmt.Fprintf(o.w, "Session: %s\n", r.SessionID)
	if r.WinnerID != nil {
		fmt.Fprintf(o.w, "Winner: %d\n", *r.WinnerID)
	}
}

func (o *Output) printRoomPage(p response.RoomPage) {
	fmt.Fprintf(o.w, "%s rooms, page %d (%d total)\n", p.State, p.Page, p.Total)
	if len(p.Rooms) == 0 {
		fmt.Fprintln(o.w, "  (none)")
		return
	}
	for _, r := range p.Rooms {
		fmt.Fprintf(o.w, "  %-6d %-24s host=%-12s players=%d/%d session=%s\n",
			r.ID, r.Name, r.HostName, r.Players, r.Capacity, r.SessionID)
	}
}

func (o *Output) printView(v snapshot.View) {
	fmt.Fprintf(o.w, "Session: %s\n", v.SessionID)
	fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	fmt.Fprintf(o.w, "Turn: %d/%d\n", v.TurnCount, model.MaxTurns)
	for _, p := range []*snapshot.PlayerView{v.Player1, v.Player2} {
		if p == nil {
			fmt.Fprintln(o.w, "  (open seat)")
			continue
		}
		marker := " "
		if v.CurrentTurnUserID != nil && *v.CurrentTurnUserID == p.UserID {
			marker = "*"
		}
		fmt.Fprintf(o.w, "%s %s (%d): %d cards\n", marker, p.DisplayName, p.UserID, p.DeckCount)
	}
	if v.CardsInPlay > 0 {
		fmt.Fprintf(o.w, "On the table: %d cards\n", v.CardsInPlay)
	}
	if len(v.LastPlayed) > 0 {
		cards := make([]string, len(v.LastPlayed))
		for i, c := range v.LastPlayed {
			cards[i] = fmt.Sprint(int(c))
		}
		fmt.Fprintf(o.w, "Last played: %s\n", strings.Join(cards, " vs "))
	}
	if v.WinnerUserID != nil {
		fmt.Fprintf(o.w, "Winner: %d\n", *v.WinnerUserID)
	}
}
