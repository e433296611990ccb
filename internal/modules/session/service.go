package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const defaultSessionID = "default"

type Service interface {
	GetSession(ctx context.Context, phone, sessionID string) (*ConversationSession, error)
	UpdateSession(ctx context.Context, phone string, req UpdateSessionRequest) (*ConversationSession, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// GetSession returns the conversation state for a phone number, creating a
// fresh session at the start step when none exists yet. Reading a session
// counts as activity.
func (s *service) GetSession(ctx context.Context, phone, sessionID string) (*ConversationSession, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	if _, err := s.repo.GetOrCreate(ctx, phone, sessionID); err != nil {
		return nil, err
	}
	return s.repo.Touch(ctx, phone, sessionID)
}

func (s *service) UpdateSession(ctx context.Context, phone string, req UpdateSessionRequest) (*ConversationSession, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	if _, err := s.repo.GetOrCreate(ctx, phone, sessionID); err != nil {
		return nil, err
	}
	sess, err := s.repo.Update(ctx, phone, sessionID, req.CurrentStep, req.ContextData)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session updated",
		zap.String("phone", phone),
		zap.String("session_id", sessionID),
		zap.String("current_step", sess.CurrentStep))
	return sess, nil
}
