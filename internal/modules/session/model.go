package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// ConversationSession tracks where a WhatsApp conversation currently is
// and carries arbitrary bot state between messages.
type ConversationSession struct {
	ID           int64                  `json:"id"`
	PhoneNumber  string                 `json:"phone_number"`
	SessionID    string                 `json:"session_id"`
	CurrentStep  string                 `json:"current_step"`
	ContextData  map[string]interface{} `json:"context_data"`
	LastActivity time.Time              `json:"last_activity"`
	CreatedAt    time.Time              `json:"created_at"`
}

// UpdateSessionRequest is a partial update: a nil CurrentStep leaves the
// step untouched, and ContextData is merged into the stored context
// rather than replacing it.
type UpdateSessionRequest struct {
	SessionID   string                 `json:"session_id"`
	CurrentStep *string                `json:"current_step"`
	ContextData map[string]interface{} `json:"context_data"`
}
