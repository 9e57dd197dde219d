package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/google/uuid"
)

// QuizRepository persists quizzes. Implementations return ErrQuizNotFound
// for missing rows.
type QuizRepository interface {
	Save(quiz *models.Quiz) error
	FindByID(id uuid.UUID) (*models.Quiz, error)
	FindLatestBySessionID(sessionID uuid.UUID) (*models.Quiz, error)
}

// QuizStateRepository persists quiz runs. Implementations return
// ErrQuizStateNotFound for missing rows.
type QuizStateRepository interface {
	Save(state *models.QuizState) error
	FindByID(id uuid.UUID) (*models.QuizState, error)
	FindLatestBySessionID(sessionID uuid.UUID) (*models.QuizState, error)
}

// QuizGenerator produces a validated-topic quiz without session or timestamps.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error)
}

// QuizService owns the quiz lifecycle: generation, runs, per-question answer
// submission, and finalization with an authoritative score recompute.
type QuizService struct {
	quizzes   QuizRepository
	states    QuizStateRepository
	generator QuizGenerator
}

func NewQuizService(quizzes QuizRepository, states QuizStateRepository, generator QuizGenerator) *QuizService {
	return &QuizService{quizzes: quizzes, states: states, generator: generator}
}

// GenerateQuiz generates, validates and persists a quiz for a chat session.
// A structurally invalid quiz is never saved.
func (s *QuizService) GenerateQuiz(ctx context.Context, topic string, chatSessionID uuid.UUID) (*models.Quiz, error) {
	log.Printf("Generating quiz for topic %q and session %s", topic, chatSessionID)

	quiz, err := s.generator.GenerateQuiz(ctx, topic)
	if err != nil {
		return nil, err
	}

	quiz.ChatSessionID = chatSessionID
	quiz.CreatedAt = time.Now()

	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}

	if err := s.quizzes.Save(quiz); err != nil {
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}
	return quiz, nil
}

// StartQuiz creates a fresh run for an existing quiz. Every call creates a
// new row; callers rely on a fresh id per start.
func (s *QuizService) StartQuiz(quizID, chatSessionID uuid.UUID) (*models.QuizState, error) {
	quiz, err := s.quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	state := &models.QuizState{
		QuizID:        quiz.ID,
		ChatSessionID: chatSessionID,
	}
	state.SetAnswers(map[int]string{})
	state.SetSubmitted(map[int]bool{})

	if err := s.states.Save(state); err != nil {
		return nil, fmt.Errorf("failed to save quiz state: %w", err)
	}
	return state, nil
}

// SubmitAnswer records an answer for one question index. Answers stay
// mutable until finalization, but the incremental score only moves on the
// first submission per index; FinishQuiz reconciles any drift.
func (s *QuizService) SubmitAnswer(quizStateID uuid.UUID, questionIndex int, answer string) (*models.QuizState, error) {
	state, err := s.states.FindByID(quizStateID)
	if err != nil {
		return nil, err
	}
	if state.IsFinished {
		return nil, ErrQuizFinished
	}

	quiz, err := s.quizzes.FindByID(state.QuizID)
	if err != nil {
		return nil, err
	}

	questions := quiz.Questions.Data()
	if questionIndex < 0 || questionIndex >= len(questions) {
		return nil, NewValidationError(fmt.Sprintf("invalid question index: %d", questionIndex))
	}

	question := questions[questionIndex]
	if question.Type == models.QuestionTypeTrueFalse {
		normalized := NormalizeTrueFalseAnswer(answer)
		if normalized != "true" && normalized != "false" {
			return nil, NewValidationError("answer must be 'true' or 'false' for true/false questions")
		}
	}

	answers := state.Answers()
	answers[questionIndex] = answer
	state.SetAnswers(answers)

	submitted := state.Submitted()
	if !submitted[questionIndex] {
		if isAnswerCorrect(answer, question.CorrectAnswer, question.Type) {
			state.Score++
		}
		submitted[questionIndex] = true
		state.SetSubmitted(submitted)
	}

	// Cursor advancement and finish detection are client-driven.

	if err := s.states.Save(state); err != nil {
		return nil, fmt.Errorf("failed to save quiz state: %w", err)
	}
	return state, nil
}

// FinishQuiz recomputes the score from scratch over every question index and
// marks the run terminal. The recompute makes finishing idempotent and
// reconciles answer revisions made after first submission.
func (s *QuizService) FinishQuiz(quizStateID uuid.UUID) (*models.QuizState, error) {
	state, err := s.states.FindByID(quizStateID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.FindByID(state.QuizID)
	if err != nil {
		return nil, err
	}

	questions := quiz.Questions.Data()
	answers := state.Answers()

	score := 0
	for i := range questions {
		userAnswer, ok := answers[i]
		if !ok {
			continue
		}
		if isAnswerCorrect(userAnswer, questions[i].CorrectAnswer, questions[i].Type) {
			score++
		}
	}

	state.Score = score
	state.IsFinished = true

	if err := s.states.Save(state); err != nil {
		return nil, fmt.Errorf("failed to save quiz state: %w", err)
	}

	log.Printf("Quiz finished with final score %d/%d for quiz state %s", score, len(questions), quizStateID)
	return state, nil
}

// UpdateCurrentQuestionIndex writes the advisory UI cursor. Scoring never
// consults it.
func (s *QuizService) UpdateCurrentQuestionIndex(quizStateID uuid.UUID, index int) (*models.QuizState, error) {
	state, err := s.states.FindByID(quizStateID)
	if err != nil {
		return nil, err
	}

	state.CurrentQuestionIndex = index
	if err := s.states.Save(state); err != nil {
		return nil, fmt.Errorf("failed to save quiz state: %w", err)
	}
	return state, nil
}

func (s *QuizService) GetQuizBySessionID(sessionID uuid.UUID) (*models.Quiz, error) {
	return s.quizzes.FindLatestBySessionID(sessionID)
}

func (s *QuizService) GetQuizState(quizStateID uuid.UUID) (*models.QuizState, error) {
	return s.states.FindByID(quizStateID)
}

func (s *QuizService) GetQuizStateBySessionID(sessionID uuid.UUID) (*models.QuizState, error) {
	return s.states.FindLatestBySessionID(sessionID)
}

// ---------- scoring ----------

func isAnswerCorrect(userAnswer, correctAnswer string, questionType models.QuestionType) bool {
	if userAnswer == "" {
		return false
	}

	switch questionType {
	case models.QuestionTypeTrueFalse:
		return NormalizeTrueFalseAnswer(userAnswer) == NormalizeTrueFalseAnswer(correctAnswer)
	case models.QuestionTypeMultipleChoice:
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
	default:
		log.Printf("Unknown question type: %s", questionType)
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
	}
}

// NormalizeTrueFalseAnswer maps loose client input onto "true"/"false".
// Unrecognized values pass through lowercased and trimmed, so two equal
// unrecognized strings still compare equal.
func NormalizeTrueFalseAnswer(answer string) string {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.HasPrefix(normalized, "t"), normalized == "yes", normalized == "y", normalized == "1":
		return "true"
	case strings.HasPrefix(normalized, "f"), normalized == "no", normalized == "n", normalized == "0":
		return "false"
	}
	return normalized
}

// ---------- structural validation ----------

func validateQuiz(quiz *models.Quiz) error {
	questions := quiz.Questions.Data()
	if len(questions) == 0 {
		return NewValidationError("quiz must have at least one question")
	}

	for i, question := range questions {
		if err := validateQuestion(question, i); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q models.QuizQuestion, index int) error {
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError(fmt.Sprintf("question text is required for question %d", index+1))
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return NewValidationError(fmt.Sprintf("correct answer is required for question %d", index+1))
	}

	switch q.Type {
	case models.QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			return NewValidationError(fmt.Sprintf("multiple choice questions must have at least 2 options for question %d", index+1))
		}
		if !answerAmongOptions(q.CorrectAnswer, q.Options) {
			return NewValidationError(fmt.Sprintf("correct answer must be one of the provided options for question %d", index+1))
		}
	case models.QuestionTypeTrueFalse:
		trimmed := strings.TrimSpace(q.CorrectAnswer)
		if !strings.EqualFold(trimmed, "true") && !strings.EqualFold(trimmed, "false") {
			return NewValidationError(fmt.Sprintf("correct answer for TRUE_FALSE question must be either 'true' or 'false' for question %d", index+1))
		}
		if !answerAmongOptions(q.CorrectAnswer, q.Options) {
			return NewValidationError(fmt.Sprintf("correct answer must match one of the TRUE_FALSE options for question %d", index+1))
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown question type %q for question %d", q.Type, index+1))
	}
	return nil
}

func answerAmongOptions(correctAnswer string, options []string) bool {
	for _, option := range options {
		if strings.EqualFold(strings.TrimSpace(option), strings.TrimSpace(correctAnswer)) {
			return true
		}
	}
	return false
}
