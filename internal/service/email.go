package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendLoginCode delivers a one-time login code. In development the code is
// logged instead of sent so the flow works without an email provider.
func (s *EmailService) SendLoginCode(email, name, code string) error {
	subject := fmt.Sprintf("Your %s login code", s.appName)
	body := fmt.Sprintf("Hi %s,\n\nYour login code is: %s\n\nIt expires in 5 minutes. If you didn't request it, you can ignore this email.\n", name, code)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "login_code", "to", email, "code", code)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "login_code", "to", email)
	}
	return err
}
