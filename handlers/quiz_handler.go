package handlers

import (
	"time"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/finedmentor/fined_mentor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type QuizHandler struct {
	quiz *services.QuizService
}

func NewQuizHandler(quiz *services.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

type QuizResponse struct {
	ID            string                `json:"id"`
	Topic         string                `json:"topic"`
	Questions     []models.QuizQuestion `json:"questions"`
	ChatSessionID string                `json:"chatSessionId"`
	CreatedAt     time.Time             `json:"createdAt"`
}

type QuizStateResponse struct {
	ID                   string         `json:"id"`
	QuizID               string         `json:"quizId"`
	ChatSessionID        string         `json:"chatSessionId"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	UserAnswers          map[int]string `json:"userAnswers"`
	IsSubmitted          map[int]bool   `json:"isSubmitted"`
	Score                int            `json:"score"`
	IsFinished           bool           `json:"isFinished"`
}

func toQuizResponse(quiz *models.Quiz) QuizResponse {
	return QuizResponse{
		ID:            quiz.ID.String(),
		Topic:         quiz.Topic,
		Questions:     quiz.Questions.Data(),
		ChatSessionID: quiz.ChatSessionID.String(),
		CreatedAt:     quiz.CreatedAt,
	}
}

func toQuizStateResponse(state *models.QuizState) QuizStateResponse {
	return QuizStateResponse{
		ID:                   state.ID.String(),
		QuizID:               state.QuizID.String(),
		ChatSessionID:        state.ChatSessionID.String(),
		CurrentQuestionIndex: state.CurrentQuestionIndex,
		UserAnswers:          state.Answers(),
		IsSubmitted:          state.Submitted(),
		Score:                state.Score,
		IsFinished:           state.IsFinished,
	}
}

type GenerateQuizRequest struct {
	Topic         string `json:"topic" validate:"required"`
	ChatSessionID string `json:"chatSessionId" validate:"required,uuid"`
}

func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	var req GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	sessionID, _ := uuid.Parse(req.ChatSessionID)
	quiz, err := h.quiz.GenerateQuiz(c.Context(), req.Topic, sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizResponse(quiz))
}

func (h *QuizHandler) Start(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid quiz id")
	}
	sessionID, err := uuid.Parse(c.Query("chatSessionId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid chat session id")
	}

	state, err := h.quiz.StartQuiz(quizID, sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizStateResponse(state))
}

type SubmitAnswerRequest struct {
	QuizStateID   string `json:"quizStateId" validate:"required,uuid"`
	QuestionIndex *int   `json:"questionIndex" validate:"required"`
	Answer        string `json:"answer" validate:"required"`
}

func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	stateID, _ := uuid.Parse(req.QuizStateID)
	state, err := h.quiz.SubmitAnswer(stateID, *req.QuestionIndex, req.Answer)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizStateResponse(state))
}

func (h *QuizHandler) Finish(c *fiber.Ctx) error {
	stateID, err := uuid.Parse(c.Params("quizStateId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid quiz state id")
	}

	state, err := h.quiz.FinishQuiz(stateID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizStateResponse(state))
}

type UpdateIndexRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

func (h *QuizHandler) UpdateIndex(c *fiber.Ctx) error {
	stateID, err := uuid.Parse(c.Params("quizStateId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid quiz state id")
	}

	var req UpdateIndexRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	state, err := h.quiz.UpdateCurrentQuestionIndex(stateID, *req.Index)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizStateResponse(state))
}

func (h *QuizHandler) GetBySession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	quiz, err := h.quiz.GetQuizBySessionID(sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizResponse(quiz))
}

func (h *QuizHandler) GetState(c *fiber.Ctx) error {
	stateID, err := uuid.Parse(c.Params("quizStateId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid quiz state id")
	}

	state, err := h.quiz.GetQuizState(stateID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizStateResponse(state))
}

func (h *QuizHandler) GetStateBySession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	state, err := h.quiz.GetQuizStateBySessionID(sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, toQuizStateResponse(state))
}
