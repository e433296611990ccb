package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	sessions map[string]*ConversationSession
	creates  int
	touches  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: map[string]*ConversationSession{}}
}

func key(phone, sessionID string) string { return phone + "/" + sessionID }

func (f *fakeRepo) GetOrCreate(ctx context.Context, phone, sessionID string) (*ConversationSession, error) {
	if s, ok := f.sessions[key(phone, sessionID)]; ok {
		return s, nil
	}
	f.creates++
	s := &ConversationSession{
		ID:          int64(f.creates),
		PhoneNumber: phone,
		SessionID:   sessionID,
		CurrentStep: "start",
		ContextData: map[string]interface{}{},
	}
	f.sessions[key(phone, sessionID)] = s
	return s, nil
}

func (f *fakeRepo) Touch(ctx context.Context, phone, sessionID string) (*ConversationSession, error) {
	s, ok := f.sessions[key(phone, sessionID)]
	if !ok {
		return nil, ErrNotFound
	}
	f.touches++
	s.LastActivity = time.Now()
	return s, nil
}

func (f *fakeRepo) Update(ctx context.Context, phone, sessionID string, step *string, patch map[string]interface{}) (*ConversationSession, error) {
	s, ok := f.sessions[key(phone, sessionID)]
	if !ok {
		return nil, ErrNotFound
	}
	if step != nil {
		s.CurrentStep = *step
	}
	for k, v := range patch {
		s.ContextData[k] = v
	}
	s.LastActivity = time.Now()
	return s, nil
}

func TestGetSessionCreatesOnFirstContact(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	s, err := svc.GetSession(ctx, "+919876543210", "")
	require.NoError(t, err)
	assert.Equal(t, "default", s.SessionID)
	assert.Equal(t, "start", s.CurrentStep)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.touches)

	// Same phone and session id resolves to the same session.
	again, err := svc.GetSession(ctx, "+919876543210", "default")
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
	assert.Equal(t, 1, repo.creates)

	// A different session id for the same phone is a separate session.
	other, err := svc.GetSession(ctx, "+919876543210", "support")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, repo.creates)

	_, err = svc.GetSession(ctx, "", "")
	assert.Error(t, err)
}

func TestUpdateSessionMergesContext(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	step := "BROWSING"
	s, err := svc.UpdateSession(ctx, "+911111111111", UpdateSessionRequest{
		CurrentStep: &step,
		ContextData: map[string]interface{}{"cart": []interface{}{"10"}, "pharmacy_id": float64(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, "BROWSING", s.CurrentStep)

	// A patch that names only one key leaves the others intact, and a nil
	// step keeps the current one.
	s, err = svc.UpdateSession(ctx, "+911111111111", UpdateSessionRequest{
		ContextData: map[string]interface{}{"pharmacy_id": float64(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "BROWSING", s.CurrentStep)
	assert.Equal(t, float64(2), s.ContextData["pharmacy_id"])
	assert.Equal(t, []interface{}{"10"}, s.ContextData["cart"])

	_, err = svc.UpdateSession(ctx, "", UpdateSessionRequest{})
	assert.Error(t, err)
}
