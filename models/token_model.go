package models

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeActivation    TokenType = "ACTIVATION"
	TokenTypePasswordReset TokenType = "PASSWORD_RESET"
	TokenTypeEmailChange   TokenType = "EMAIL_CHANGE"
)

// Token is a one-time code for account lifecycle flows. Consumed tokens are
// kept with UsedAt set instead of being deleted.
type Token struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Token string    `gorm:"size:64;not null;uniqueIndex" json:"-"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type   TokenType `gorm:"size:32;not null" json:"type"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`

	User User `gorm:"foreignkey:UserID" json:"-"`
}

func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *Token) IsValid() bool {
	return !t.IsExpired() && t.UsedAt == nil
}
