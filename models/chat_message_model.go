package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageSender string

const (
	SenderUser      MessageSender = "USER"
	SenderAssistant MessageSender = "ASSISTANT"
)

type ChatMessage struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"session_id"`
	Sender    MessageSender `gorm:"size:20;not null" json:"sender"`
	Text      string        `gorm:"type:text;not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`

	Session ChatSession `gorm:"foreignkey:SessionID" json:"-"`
}
