package service

import (
	"context"

	"deltajournal-backend/logger"
)

// Mailer delivers account emails
type Mailer interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// LogMailer writes confirmation links to the log instead of sending mail
type LogMailer struct{}

func (LogMailer) SendConfirmation(ctx context.Context, email, link string) error {
	logger.Info("confirmation email", "email", email, "link", link)
	return nil
}
