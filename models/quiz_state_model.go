package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizState is a single run of a Quiz. UserAnswers and IsSubmitted are keyed
// by question index; scoring iterates by index range, never by map order.
type QuizState struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID        uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	ChatSessionID uuid.UUID `gorm:"type:uuid;index" json:"chat_session_id"`

	CurrentQuestionIndex int                                 `gorm:"default:0" json:"current_question_index"`
	UserAnswers          datatypes.JSONType[map[int]string]  `gorm:"type:jsonb" json:"user_answers"`
	IsSubmitted          datatypes.JSONType[map[int]bool]    `gorm:"type:jsonb" json:"is_submitted"`
	Score                int                                 `gorm:"default:0" json:"score"`
	IsFinished           bool                                `gorm:"default:false" json:"is_finished"`

	CreatedAt time.Time `json:"created_at"`
}

// Answers returns the answer map, never nil.
func (s *QuizState) Answers() map[int]string {
	m := s.UserAnswers.Data()
	if m == nil {
		m = map[int]string{}
	}
	return m
}

// Submitted returns the per-index submission flags, never nil.
func (s *QuizState) Submitted() map[int]bool {
	m := s.IsSubmitted.Data()
	if m == nil {
		m = map[int]bool{}
	}
	return m
}

func (s *QuizState) SetAnswers(m map[int]string) {
	s.UserAnswers = datatypes.NewJSONType(m)
}

func (s *QuizState) SetSubmitted(m map[int]bool) {
	s.IsSubmitted = datatypes.NewJSONType(m)
}
