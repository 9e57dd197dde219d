package repository

import (
	"errors"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/finedmentor/fined_mentor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizStateRepository struct {
	db *gorm.DB
}

func NewQuizStateRepository(db *gorm.DB) *QuizStateRepository {
	return &QuizStateRepository{db: db}
}

// Save runs inside a transaction so a read-modify-write submit is applied
// atomically per quiz state row.
func (r *QuizStateRepository) Save(state *models.QuizState) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(state).Error
	})
}

func (r *QuizStateRepository) FindByID(id uuid.UUID) (*models.QuizState, error) {
	var state models.QuizState
	err := r.db.First(&state, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrQuizStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *QuizStateRepository) FindLatestBySessionID(sessionID uuid.UUID) (*models.QuizState, error) {
	var state models.QuizState
	err := r.db.Where("chat_session_id = ?", sessionID).
		Order("created_at DESC").
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrQuizStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}
