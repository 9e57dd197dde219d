package services

import (
	"fmt"
	"log"
	"time"

	"github.com/finedmentor/fined_mentor/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository persists users. Find methods return ErrUserNotFound for
// missing rows.
type UserRepository interface {
	Save(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsernameOrEmail(usernameOrEmail string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
}

// Mailer delivers account-lifecycle mail. Implementations log their own
// failures; delivery never blocks or fails the triggering request.
type Mailer interface {
	SendActivationEmail(username, email, otp string)
	SendPasswordResetEmail(username, email, otp string)
}

// AuthService orchestrates registration, activation and password reset on
// top of the token engine and the mailer.
type AuthService struct {
	users  UserRepository
	tokens *TokenService
	mailer Mailer
}

func NewAuthService(users UserRepository, tokens *TokenService, mailer Mailer) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer}
}

// RegisterUser creates a deactivated account and mails an activation OTP.
func (s *AuthService) RegisterUser(username, email, password string) error {
	taken, err := s.users.ExistsByUsername(username)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Message: "Username is already taken"}
	}

	taken, err = s.users.ExistsByEmail(email)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Message: "Email is already registered"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     "user",
		Enabled:  true,
	}
	if err := s.users.Save(user); err != nil {
		return err
	}
	log.Printf("User registered successfully: %s", user.Email)

	token, err := s.tokens.CreateActivationToken(user)
	if err != nil {
		return err
	}
	go s.mailer.SendActivationEmail(user.Username, user.Email, token.Token)

	return nil
}

// ActivateUser consumes an activation token and activates its owner. The
// token is burnt before the user write, so activation is never visible
// unless both writes succeeded; a failure in between is recovered by
// resending a fresh token.
func (s *AuthService) ActivateUser(tokenValue string) error {
	token, err := s.tokens.ValidateToken(tokenValue, models.TokenTypeActivation)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByID(token.UserID.String())
	if err != nil {
		return err
	}

	if err := s.tokens.MarkTokenAsUsed(token); err != nil {
		return err
	}

	user.Activated = true
	user.UpdatedAt = time.Now()
	if err := s.users.Save(user); err != nil {
		return err
	}

	log.Printf("User activated successfully: %s", user.Email)
	return nil
}

// ResendActivationToken supersedes the previous activation token and mails
// a fresh OTP.
func (s *AuthService) ResendActivationToken(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	if user.Activated {
		return ErrUserAlreadyActivated
	}

	token, err := s.tokens.CreateActivationToken(user)
	if err != nil {
		return err
	}
	go s.mailer.SendActivationEmail(user.Username, user.Email, token.Token)

	log.Printf("Activation token resent to: %s", user.Email)
	return nil
}

// InitiatePasswordReset issues a reset OTP and mails it.
func (s *AuthService) InitiatePasswordReset(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}

	token, err := s.tokens.CreatePasswordResetToken(user)
	if err != nil {
		return err
	}
	go s.mailer.SendPasswordResetEmail(user.Username, user.Email, token.Token)

	log.Printf("Password reset initiated for: %s", user.Email)
	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (s *AuthService) ResetPassword(tokenValue, newPassword string) error {
	token, err := s.tokens.ValidateToken(tokenValue, models.TokenTypePasswordReset)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByID(token.UserID.String())
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.tokens.MarkTokenAsUsed(token); err != nil {
		return err
	}

	user.Password = string(hashed)
	user.UpdatedAt = time.Now()
	if err := s.users.Save(user); err != nil {
		return err
	}

	log.Printf("Password reset successfully for user: %s", user.Email)
	return nil
}

// Authenticate checks credentials for login. A bad password maps onto
// ErrUserNotFound so that login failures are indistinguishable; inactive or
// disabled accounts get an explicit validation error.
func (s *AuthService) Authenticate(usernameOrEmail, password string) (*models.User, error) {
	user, err := s.users.FindByUsernameOrEmail(usernameOrEmail)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrUserNotFound
	}
	if !user.Activated {
		return nil, NewValidationError("Account is not activated. Please check your email for the activation code.")
	}
	if !user.Enabled {
		return nil, NewValidationError("Account is disabled.")
	}

	return user, nil
}
