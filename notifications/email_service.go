package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/finedmentor/fined_mentor/configs"
)

// BrevoService sends transactional mail through the Brevo HTTP API.
type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string

	http *http.Client
}

func NewBrevoService() *BrevoService {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.ConfigDefault("EMAIL_SENDER_NAME", "Fined Mentor")

	if apiKey == "" || senderEmail == "" {
		log.Println("⚠️ Email service not configured. Missing API key or sender email.")
		return nil
	}

	log.Println("✅ Email service initialized successfully.")
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *BrevoService) send(toName, toEmail, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}
	if toName == "" {
		toName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to send email via Brevo: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendActivationEmail mails the account-activation OTP. Callers run it in a
// goroutine; failures are logged here and never surfaced to the request.
func (s *BrevoService) SendActivationEmail(username, email, otp string) {
	if s == nil {
		log.Println("Email client not initialized, skipping activation email.")
		return
	}

	body := fmt.Sprintf(`<h1>Welcome to Fined Mentor, %s!</h1>
<p>Your activation code is:</p>
<h2>%s</h2>
<p>The code is valid for 15 minutes. If you did not create an account, you can ignore this email.</p>`, username, otp)

	if err := s.send(username, email, "Activate your Fined Mentor account", body); err != nil {
		log.Printf("🔥 Failed to send activation email to %s: %v", email, err)
		return
	}
	log.Printf("✅ Activation email sent to %s", email)
}

// SendPasswordResetEmail mails the password-reset OTP.
func (s *BrevoService) SendPasswordResetEmail(username, email, otp string) {
	if s == nil {
		log.Println("Email client not initialized, skipping password reset email.")
		return
	}

	body := fmt.Sprintf(`<h1>Password Reset</h1>
<p>Hi %s, your password reset code is:</p>
<h2>%s</h2>
<p>The code is valid for 15 minutes. If you did not request a reset, you can ignore this email.</p>`, username, otp)

	if err := s.send(username, email, "Reset your Fined Mentor password", body); err != nil {
		log.Printf("🔥 Failed to send password reset email to %s: %v", email, err)
		return
	}
	log.Printf("✅ Password reset email sent to %s", email)
}
