package repository

import (
	"errors"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/finedmentor/fined_mentor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Save(quiz *models.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *QuizRepository) FindByID(id uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.First(&quiz, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindLatestBySessionID(sessionID uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Where("chat_session_id = ?", sessionID).
		Order("created_at DESC").
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
