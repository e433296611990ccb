package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL session repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const sessionColumns = `id, phone_number, session_id, current_step, context_data, last_activity, created_at`

func scanSession(scan func(...interface{}) error) (*ConversationSession, error) {
	s := &ConversationSession{}
	var raw []byte
	err := scan(&s.ID, &s.PhoneNumber, &s.SessionID, &s.CurrentStep, &raw, &s.LastActivity, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.ContextData); err != nil {
		return nil, fmt.Errorf("decode context_data: %w", err)
	}
	return s, nil
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, phone, sessionID string) (*ConversationSession, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversation_sessions (phone_number, session_id)
		VALUES ($1, $2)
		ON CONFLICT (phone_number, session_id) DO NOTHING`,
		phone, sessionID)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+`
		FROM conversation_sessions WHERE phone_number = $1 AND session_id = $2`,
		phone, sessionID)
	s, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *postgresRepo) Touch(ctx context.Context, phone, sessionID string) (*ConversationSession, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE conversation_sessions SET last_activity = NOW()
		WHERE phone_number = $1 AND session_id = $2
		RETURNING `+sessionColumns,
		phone, sessionID)
	s, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// Update merges the context patch into the stored JSONB document so
// concurrent bot updates only overwrite the keys they name.
func (r *postgresRepo) Update(ctx context.Context, phone, sessionID string, step *string, patch map[string]interface{}) (*ConversationSession, error) {
	if patch == nil {
		patch = map[string]interface{}{}
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode context patch: %w", err)
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE conversation_sessions
		SET current_step = COALESCE($3, current_step),
		    context_data = context_data || $4::jsonb,
		    last_activity = NOW()
		WHERE phone_number = $1 AND session_id = $2
		RETURNING `+sessionColumns,
		phone, sessionID, step, raw)
	s, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}
