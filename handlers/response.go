package handlers

import (
	"errors"
	"log"

	"github.com/finedmentor/fined_mentor/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ApiResponse is the uniform envelope for every JSON response.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(ApiResponse{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, message string) error {
	return c.JSON(ApiResponse{Success: true, Message: message})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ApiResponse{Success: false, Message: message})
}

// respondError maps typed service errors to HTTP statuses. Unexpected
// errors are logged server-side and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var generationErr *services.GenerationError
	var externalErr *services.ExternalError

	switch {
	case errors.As(err, &validationErr):
		return fail(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, &conflictErr):
		return fail(c, fiber.StatusConflict, conflictErr.Message)
	case errors.Is(err, services.ErrQuizFinished),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrUserAlreadyActivated):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrQuizStateNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrChatSessionNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.As(err, &generationErr):
		log.Printf("[ERROR] quiz generation: %v", generationErr.Unwrap())
		return fail(c, fiber.StatusInternalServerError, generationErr.Message)
	case errors.As(err, &externalErr):
		log.Printf("[ERROR] upstream dependency: %v", externalErr.Unwrap())
		return fail(c, fiber.StatusBadGateway, externalErr.Message)
	default:
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
		return fail(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
