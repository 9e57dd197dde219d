package routes

import (
	"github.com/finedmentor/fined_mentor/handlers"
	"github.com/finedmentor/fined_mentor/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App, h *handlers.QuizHandler) {
	quiz := app.Group("/api/quiz", middleware.Protected())

	quiz.Post("/generate", h.Generate)
	quiz.Post("/answer", h.SubmitAnswer)
	quiz.Post("/:quizStateId/finish", h.Finish)
	quiz.Post("/:quizId/start", h.Start)
	quiz.Get("/state/:quizStateId", h.GetState)
	quiz.Put("/state/:quizStateId/index", h.UpdateIndex)
	quiz.Get("/sessions/:sessionId", h.GetBySession)
	quiz.Get("/sessions/:sessionId/state", h.GetStateBySession)
}
