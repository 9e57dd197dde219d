package services

import (
	"fmt"
	"log"
	"time"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/finedmentor/fined_mentor/utils"
	"github.com/google/uuid"
)

// tokenTTL bounds the brute-force window on the 6-digit OTP space. It
// applies to every token type.
const tokenTTL = 15 * time.Minute

// TokenRepository persists one-time tokens. FindByTokenAndType returns
// (nil, nil) when no row matches.
type TokenRepository interface {
	Save(token *models.Token) error
	FindByTokenAndType(value string, tokenType models.TokenType) (*models.Token, error)
	DeleteByUserAndType(userID uuid.UUID, tokenType models.TokenType) error
}

// TokenService issues, validates and consumes one-time OTP tokens. At most
// one live token exists per (user, type); consumed tokens are kept as an
// audit trail.
type TokenService struct {
	tokens TokenRepository
}

func NewTokenService(tokens TokenRepository) *TokenService {
	return &TokenService{tokens: tokens}
}

func (s *TokenService) CreateActivationToken(user *models.User) (*models.Token, error) {
	return s.createToken(user, models.TokenTypeActivation)
}

func (s *TokenService) CreatePasswordResetToken(user *models.User) (*models.Token, error) {
	return s.createToken(user, models.TokenTypePasswordReset)
}

func (s *TokenService) createToken(user *models.User, tokenType models.TokenType) (*models.Token, error) {
	// Supersede any live token of this type before issuing a new one.
	if err := s.tokens.DeleteByUserAndType(user.ID, tokenType); err != nil {
		return nil, fmt.Errorf("failed to delete existing tokens: %w", err)
	}

	value, err := utils.GenerateOTP()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &models.Token{
		Token:     value,
		UserID:    user.ID,
		Type:      tokenType,
		CreatedAt: now,
		ExpiresAt: now.Add(tokenTTL),
	}

	if err := s.tokens.Save(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	log.Printf("Created %s token for user %s", tokenType, user.Email)
	return token, nil
}

// ValidateToken looks up a token by value and type. A missing, expired or
// already-used token yields (nil, nil); callers turn that into their own
// typed error. A non-nil error is an infrastructure failure only.
func (s *TokenService) ValidateToken(value string, tokenType models.TokenType) (*models.Token, error) {
	token, err := s.tokens.FindByTokenAndType(value, tokenType)
	if err != nil {
		return nil, err
	}
	if token == nil {
		log.Printf("Token not found for type %s", tokenType)
		return nil, nil
	}
	if !token.IsValid() {
		log.Printf("Token is invalid or expired for type %s", tokenType)
		return nil, nil
	}
	return token, nil
}

// MarkTokenAsUsed consumes a token. Calling it twice is harmless; the token
// is already invalid after the first call.
func (s *TokenService) MarkTokenAsUsed(token *models.Token) error {
	now := time.Now()
	token.UsedAt = &now
	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}
	return nil
}
