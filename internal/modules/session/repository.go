package session

import "context"

type Repository interface {
	// GetOrCreate returns the session for (phone, sessionID), creating it
	// when absent. Safe under concurrent calls for the same pair.
	GetOrCreate(ctx context.Context, phone, sessionID string) (*ConversationSession, error)
	// Touch refreshes last_activity and returns the current session.
	Touch(ctx context.Context, phone, sessionID string) (*ConversationSession, error)
	// Update applies a step change and merges the context patch.
	Update(ctx context.Context, phone, sessionID string, step *string, patch map[string]interface{}) (*ConversationSession, error)
}
