package repository

import (
	"errors"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Save(token *models.Token) error {
	return r.db.Save(token).Error
}

func (r *TokenRepository) FindByTokenAndType(value string, tokenType models.TokenType) (*models.Token, error) {
	var token models.Token
	err := r.db.Where("token = ? AND type = ?", value, tokenType).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) DeleteByUserAndType(userID uuid.UUID, tokenType models.TokenType) error {
	return r.db.Where("user_id = ? AND type = ?", userID, tokenType).
		Delete(&models.Token{}).Error
}
