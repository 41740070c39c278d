package model

// EventType names a notification pushed to session subscribers
type EventType string

const (
	// EventConnected is sent once when a subscriber attaches
	EventConnected EventType = "connected"
	// EventSessionUpdated carries a fresh snapshot after join, play or forfeit
	EventSessionUpdated EventType = "session-updated"
	// EventSessionEnded is the terminal notification for a session
	EventSessionEnded EventType = "session-ended"
)
