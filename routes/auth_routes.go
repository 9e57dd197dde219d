package routes

import (
	"github.com/finedmentor/fined_mentor/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	auth := app.Group("/api/auth")

	auth.Post("/register", h.Register)
	auth.Post("/activate", h.Activate)
	auth.Post("/resend-activation", h.ResendActivation)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
}
