package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
)

// QuizQuestion is embedded in a Quiz's jsonb column; it has no identity of
// its own.
type QuizQuestion struct {
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
}

// Quiz is immutable once saved. A chat session can accumulate several
// quizzes; lookups always take the most recent one.
type Quiz struct {
	ID            uuid.UUID                              `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Topic         string                                 `gorm:"size:255;not null" json:"topic"`
	Questions     datatypes.JSONType[[]QuizQuestion]     `gorm:"type:jsonb" json:"questions"`
	ChatSessionID uuid.UUID                              `gorm:"type:uuid;index" json:"chat_session_id"`
	CreatedAt     time.Time                              `json:"created_at"`
}
