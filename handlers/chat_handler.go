package handlers

import (
	"github.com/finedmentor/fined_mentor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	return uuid.Parse(claims["user_id"].(string))
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token claims")
	}

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	session, err := h.chat.CreateSession(userID, req.Title)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, session)
}

func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token claims")
	}

	sessions, err := h.chat.GetSessions(userID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, sessions)
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	messages, err := h.chat.GetMessages(sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, messages)
}

type ChatMessageRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	Message   string `json:"message" validate:"required"`
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	sessionID, _ := uuid.Parse(req.SessionID)
	reply, err := h.chat.SendMessage(c.Context(), sessionID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, reply)
}

type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

func (h *ChatHandler) UpdateTitle(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	var req UpdateTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.chat.UpdateSessionTitle(sessionID, req.Title)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, session)
}

func (h *ChatHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	if err := h.chat.DeleteSession(sessionID); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "Chat session deleted")
}
