package routes

import (
	"github.com/finedmentor/fined_mentor/handlers"
	"github.com/finedmentor/fined_mentor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ChatRoutes(app *fiber.App, h *handlers.ChatHandler) {
	chat := app.Group("/api/chat", middleware.Protected())

	chat.Post("/sessions", h.CreateSession)
	chat.Get("/sessions", h.ListSessions)
	chat.Get("/sessions/:sessionId/messages", h.GetMessages)
	chat.Put("/sessions/:sessionId/title", h.UpdateTitle)
	chat.Delete("/sessions/:sessionId", h.DeleteSession)
	chat.Post("/message", h.SendMessage)
}
