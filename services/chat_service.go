package services

import (
	"context"
	"fmt"
	"log"

	"github.com/finedmentor/fined_mentor/ai"
	"github.com/finedmentor/fined_mentor/models"
	"github.com/google/uuid"
)

const chatSystemPrompt = `IDENTITY & CHARACTER ROLE:
You are **Fined Mentor**, a specialized AI financial advisor and expert in finance, investment, real estate, and immobilien.
When asked about your name or who you are, always respond that you are "Fined Mentor".

TOPIC RESTRICTIONS (STRICTLY ENFORCE):
You ONLY answer questions related to:
- Finance (personal finance, corporate finance, financial planning)
- Investment (stocks, bonds, ETFs, mutual funds, portfolio management)
- Real Estate (property investment, real estate markets, rental properties)
- Immobilien (German real estate, property management, German market specifics)

If a user asks about ANY other topic, politely decline and redirect them to your expertise areas.

MULTILINGUAL RESPONSE RULE (CRITICAL):
ALWAYS respond in the SAME language the user writes in. Detect the language from the user's message and match it exactly.

WEB SEARCH CAPABILITY:
You have access to a web search tool. Use it to find current information when asked about recent events, market trends, or specific data points.
Always cite your sources when using information from the web, as a markdown list of up to 5 links.

RESPONSE APPROACH:
1. Verify the question is about finance/investment/real estate/immobilien
2. Detect the user's language
3. Analyze the user's question to identify their knowledge level
4. Structure the answer: definition, explanation, practical example
5. Add an actionable next step or resource when relevant`

// ChatSessionRepository persists chat sessions. Find methods return
// ErrChatSessionNotFound for missing rows.
type ChatSessionRepository interface {
	Save(session *models.ChatSession) error
	FindByID(id uuid.UUID) (*models.ChatSession, error)
	FindByUserID(userID uuid.UUID) ([]models.ChatSession, error)
	Delete(id uuid.UUID) error
}

// ChatMessageRepository persists chat transcripts in creation order.
type ChatMessageRepository interface {
	Save(message *models.ChatMessage) error
	FindBySessionID(sessionID uuid.UUID) ([]models.ChatMessage, error)
	DeleteBySessionID(sessionID uuid.UUID) error
}

// ChatService manages chat transcripts and forwards them with the system
// prompt to the model.
type ChatService struct {
	sessions ChatSessionRepository
	messages ChatMessageRepository
	ai       ai.Client
}

func NewChatService(sessions ChatSessionRepository, messages ChatMessageRepository, aiClient ai.Client) *ChatService {
	return &ChatService{sessions: sessions, messages: messages, ai: aiClient}
}

func (s *ChatService) CreateSession(userID uuid.UUID, title string) (*models.ChatSession, error) {
	session := &models.ChatSession{
		UserID: userID,
		Active: true,
	}
	if title != "" {
		session.Title = title
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return session, nil
}

func (s *ChatService) GetSessions(userID uuid.UUID) ([]models.ChatSession, error) {
	return s.sessions.FindByUserID(userID)
}

func (s *ChatService) GetMessages(sessionID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := s.sessions.FindByID(sessionID); err != nil {
		return nil, err
	}
	return s.messages.FindBySessionID(sessionID)
}

func (s *ChatService) UpdateSessionTitle(sessionID uuid.UUID, title string) (*models.ChatSession, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	session.Title = title
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to update session title: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session together with its transcript.
func (s *ChatService) DeleteSession(sessionID uuid.UUID) error {
	if _, err := s.sessions.FindByID(sessionID); err != nil {
		return err
	}
	if err := s.messages.DeleteBySessionID(sessionID); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	return s.sessions.Delete(sessionID)
}

// SendMessage persists the user message, replays the full transcript to the
// model under the Fined Mentor system prompt, and persists the reply.
func (s *ChatService) SendMessage(ctx context.Context, sessionID uuid.UUID, text string) (*models.ChatMessage, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	userMessage := &models.ChatMessage{
		SessionID: session.ID,
		Sender:    models.SenderUser,
		Text:      text,
	}
	if err := s.messages.Save(userMessage); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	history, err := s.messages.FindBySessionID(session.ID)
	if err != nil {
		return nil, err
	}

	aiMessages := make([]ai.Message, 0, len(history))
	for _, m := range history {
		role := ai.RoleUser
		if m.Sender == models.SenderAssistant {
			role = ai.RoleAssistant
		}
		aiMessages = append(aiMessages, ai.Message{Role: role, Content: m.Text})
	}

	reply, err := s.ai.Complete(ctx, chatSystemPrompt, aiMessages)
	if err != nil {
		log.Printf("Chat completion failed for session %s: %v", session.ID, err)
		return nil, &ExternalError{Message: "Failed to get a response. Please try again.", Err: err}
	}

	assistantMessage := &models.ChatMessage{
		SessionID: session.ID,
		Sender:    models.SenderAssistant,
		Text:      reply,
	}
	if err := s.messages.Save(assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}
	return assistantMessage, nil
}
