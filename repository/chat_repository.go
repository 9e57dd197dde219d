package repository

import (
	"errors"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/finedmentor/fined_mentor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSessionRepository struct {
	db *gorm.DB
}

func NewChatSessionRepository(db *gorm.DB) *ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

func (r *ChatSessionRepository) Save(session *models.ChatSession) error {
	return r.db.Save(session).Error
}

func (r *ChatSessionRepository) FindByID(id uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrChatSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ChatSessionRepository) FindByUserID(userID uuid.UUID) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *ChatSessionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.ChatSession{}, "id = ?", id).Error
}

type ChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Save(message *models.ChatMessage) error {
	return r.db.Save(message).Error
}

func (r *ChatMessageRepository) FindBySessionID(sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *ChatMessageRepository) DeleteBySessionID(sessionID uuid.UUID) error {
	return r.db.Delete(&models.ChatMessage{}, "session_id = ?", sessionID).Error
}
