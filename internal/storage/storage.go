package storage

import "time"

// Event represents a single widget turn: the visitor's message and what the
// assistant did with it. Events are appended in chronological order.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Session    string    `json:"session"`
	Channel    string    `json:"channel"` // http, websocket, telegram
	Message    string    `json:"message"`
	Intent     string    `json:"intent"`
	NavigateTo string    `json:"navigate_to,omitempty"`
	Reply      string    `json:"reply"`
	Fallback   bool      `json:"fallback,omitempty"`
}

// Recorder abstracts persistence of turn events.
// Implementations can be file-based, database, etc.
// LoadInteractions should return events in chronological order.
// AppendInteraction should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
