package types

import "time"

// SessionSnapshot is the persisted shape of a session. The live session
// object lives in internal/session.
type SessionSnapshot struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Config    map[string]string `json:"config"`
	History   []DirectiveRecord `json:"history,omitempty"`
}

// DirectiveRecord captures one directive executed against a session
type DirectiveRecord struct {
	Name      string    `json:"name"`
	Payload   string    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionMetadata contains summary information
type SessionMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ConfigLen int       `json:"config_len"`
}

// SessionStats contains session manager statistics
type SessionStats struct {
	ActiveSessions int        `json:"active_sessions"`
	TotalCreated   int64      `json:"total_created"`
	LastSaved      *time.Time `json:"last_saved,omitempty"`
	LastRestored   *time.Time `json:"last_restored,omitempty"`
}

// Event is pushed to session stream subscribers
type Event struct {
	Type      string                 `json:"type"`
	SessionID string                 `json:"session_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Event types emitted on the session stream.
const (
	EventFigure    = "figure"
	EventDirective = "directive"
	EventSystem    = "system"
)

// WSMessage is an inbound websocket message
type WSMessage struct {
	Type    string                 `json:"type"`
	Context map[string]interface{} `json:"context,omitempty"`
}
