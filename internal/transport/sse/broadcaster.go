package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/snapshot"
)

// Broadcaster publishes session views to the session's watchers
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// SessionUpdated sends the latest view to everyone watching the session
func (b *Broadcaster) SessionUpdated(view *snapshot.View) {
	b.send(view, model.EventSessionUpdated)
}

// SessionEnded sends the terminal view and closes the session's hub
func (b *Broadcaster) SessionEnded(view *snapshot.View) {
	b.send(view, model.EventSessionEnded)
	b.hubManager.RemoveHub(view.SessionID)
}

func (b *Broadcaster) send(view *snapshot.View, event model.EventType) {
	hub := b.hubManager.GetHub(view.SessionID)
	if hub == nil {
		return
	}
	msg, err := EncodeEvent(event, view)
	if err != nil {
		b.logger.Error("sse failed to encode view",
			slog.String("session_id", string(view.SessionID)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(msg)
}

// EncodeEvent renders v as JSON inside a named SSE event
func EncodeEvent(event model.EventType, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return formatSSEMessage(string(event), string(data)), nil
}
