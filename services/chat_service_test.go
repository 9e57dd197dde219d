package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/finedmentor/fined_mentor/ai"
	"github.com/finedmentor/fined_mentor/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*models.ChatSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*models.ChatSession{}}
}

func (r *fakeSessionRepo) Save(session *models.ChatSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.Title == "" {
		session.Title = "New Chat"
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByID(id uuid.UUID) (*models.ChatSession, error) {
	session, found := r.sessions[id]
	if !found {
		return nil, ErrChatSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) FindByUserID(userID uuid.UUID) ([]models.ChatSession, error) {
	var result []models.ChatSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			result = append(result, *session)
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) Delete(id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

type fakeMessageRepo struct {
	messages []models.ChatMessage
}

func (r *fakeMessageRepo) Save(message *models.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindBySessionID(sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var result []models.ChatMessage
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeMessageRepo) DeleteBySessionID(sessionID uuid.UUID) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.SessionID != sessionID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func newChatFixture(client *stubAIClient) (*ChatService, *fakeSessionRepo, *fakeMessageRepo) {
	sessions := newFakeSessionRepo()
	messages := &fakeMessageRepo{}
	return NewChatService(sessions, messages, client), sessions, messages
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	svc, _, _ := newChatFixture(&stubAIClient{})
	userID := uuid.New()

	session, err := svc.CreateSession(userID, "")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", session.Title)
	assert.True(t, session.Active)

	named, err := svc.CreateSession(userID, "Retirement planning")
	require.NoError(t, err)
	assert.Equal(t, "Retirement planning", named.Title)

	listed, err := svc.GetSessions(userID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestSendMessagePersistsBothSides(t *testing.T) {
	client := &stubAIClient{response: "A stock is a share of ownership in a company."}
	svc, _, _ := newChatFixture(client)

	session, err := svc.CreateSession(uuid.New(), "")
	require.NoError(t, err)

	reply, err := svc.SendMessage(context.Background(), session.ID, "What is a stock?")
	require.NoError(t, err)
	assert.Equal(t, models.SenderAssistant, reply.Sender)
	assert.Equal(t, "A stock is a share of ownership in a company.", reply.Text)

	history, err := svc.GetMessages(session.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.SenderUser, history[0].Sender)
	assert.Equal(t, "What is a stock?", history[0].Text)
	assert.Equal(t, models.SenderAssistant, history[1].Sender)
}

func TestSendMessageReplaysHistory(t *testing.T) {
	client := &stubAIClient{response: "ok"}
	svc, _, _ := newChatFixture(client)

	session, err := svc.CreateSession(uuid.New(), "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), session.ID, "first question")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), session.ID, "second question")
	require.NoError(t, err)

	// The second call replays user, assistant, user.
	require.Len(t, client.lastMsgs, 3)
	assert.Equal(t, ai.RoleUser, client.lastMsgs[0].Role)
	assert.Equal(t, "first question", client.lastMsgs[0].Content)
	assert.Equal(t, ai.RoleAssistant, client.lastMsgs[1].Role)
	assert.Equal(t, ai.RoleUser, client.lastMsgs[2].Role)
	assert.Equal(t, "second question", client.lastMsgs[2].Content)
}

func TestSendMessageModelFailure(t *testing.T) {
	client := &stubAIClient{err: errors.New("upstream down")}
	svc, _, messages := newChatFixture(client)

	session, err := svc.CreateSession(uuid.New(), "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), session.ID, "hello")

	var externalErr *ExternalError
	require.ErrorAs(t, err, &externalErr)
	// The user message survives for the retry.
	history, err := messages.FindBySessionID(session.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSendMessageUnknownSession(t *testing.T) {
	svc, _, _ := newChatFixture(&stubAIClient{})
	_, err := svc.SendMessage(context.Background(), uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrChatSessionNotFound)
}

func TestUpdateSessionTitle(t *testing.T) {
	svc, _, _ := newChatFixture(&stubAIClient{})
	session, err := svc.CreateSession(uuid.New(), "")
	require.NoError(t, err)

	updated, err := svc.UpdateSessionTitle(session.ID, "Mortgage questions")
	require.NoError(t, err)
	assert.Equal(t, "Mortgage questions", updated.Title)

	_, err = svc.UpdateSessionTitle(uuid.New(), "nope")
	assert.ErrorIs(t, err, ErrChatSessionNotFound)
}

func TestDeleteSessionRemovesTranscript(t *testing.T) {
	client := &stubAIClient{response: "hi"}
	svc, sessions, messages := newChatFixture(client)

	session, err := svc.CreateSession(uuid.New(), "")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), session.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(session.ID))

	_, err = sessions.FindByID(session.ID)
	assert.ErrorIs(t, err, ErrChatSessionNotFound)
	remaining, err := messages.FindBySessionID(session.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, svc.DeleteSession(session.ID), ErrChatSessionNotFound)
}
