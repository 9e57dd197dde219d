package services

import "errors"

var (
	// ErrQuizNotFound is returned when a quiz id or session has no quiz.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizStateNotFound is returned when a quiz run cannot be loaded.
	ErrQuizStateNotFound = errors.New("quiz state not found")
	// ErrQuizFinished rejects submissions against a finalized quiz run.
	ErrQuizFinished = errors.New("cannot submit answer - quiz is already finished")
	// ErrUserNotFound is returned for lookups of unknown users.
	ErrUserNotFound = errors.New("user not found")
	// ErrChatSessionNotFound is returned for lookups of unknown chat sessions.
	ErrChatSessionNotFound = errors.New("chat session not found")
	// ErrInvalidToken covers absent, expired and already-consumed tokens alike.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserAlreadyActivated rejects activation resends for live accounts.
	ErrUserAlreadyActivated = errors.New("user is already activated")
)

// ValidationError is a user-correctable input problem (bad topic, bad
// question index, malformed true/false answer).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// ConflictError signals a uniqueness violation (duplicate username/email).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// GenerationError wraps an LLM generation or parse failure. The wrapped
// cause stays server-side; Message is safe for clients.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string { return e.Message }
func (e *GenerationError) Unwrap() error { return e.Err }

// ExternalError wraps an upstream dependency failure (LLM, search, mail)
// with a generic user-facing message.
type ExternalError struct {
	Message string
	Err     error
}

func (e *ExternalError) Error() string { return e.Message }
func (e *ExternalError) Unwrap() error { return e.Err }
