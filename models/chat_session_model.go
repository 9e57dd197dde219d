package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title  string    `gorm:"size:255;not null;default:'New Chat'" json:"title"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Active bool      `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
}
