package handlers

import (
	"errors"
	"time"

	config "github.com/finedmentor/fined_mentor/configs"
	"github.com/finedmentor/fined_mentor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.auth.RegisterUser(req.Username, req.Email, req.Password); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "Registration successful. Please check your email for activation OTP.")
}

type ActivationRequest struct {
	Token string `json:"token" validate:"required,len=6"`
}

func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var req ActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.auth.ActivateUser(req.Token); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "Account activated successfully")
}

func (h *AuthHandler) ResendActivation(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return fail(c, fiber.StatusBadRequest, "email query parameter is required")
	}

	if err := h.auth.ResendActivationToken(email); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "Activation OTP sent successfully")
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Authenticate(req.UsernameOrEmail, req.Password)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return fail(c, fiber.StatusUnauthorized, validationErr.Message)
		}
		return fail(c, fiber.StatusUnauthorized, "Invalid username/email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to create token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    signed,
		Expires:  time.Now().Add(72 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return ok(c, LoginResponse{
		Token:    signed,
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return okMessage(c, "You've been signed out!")
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.auth.InitiatePasswordReset(req.Email); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "Password reset OTP sent to your email")
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.auth.ResetPassword(req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "Password reset successfully")
}
