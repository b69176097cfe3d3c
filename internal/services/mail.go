package services

import (
	"context"

	"github.com/focusup-app/focusup-backend/internal/logger"
)

// MailService hands a rendered message to an email transport. Failure is an
// error, not inspected further by callers.
type MailService interface {
	Send(ctx context.Context, to, subject, html string) error
}

// consoleMailService logs messages instead of sending them. Local dev and
// test fallback when no SendGrid key is configured.
type consoleMailService struct {
	log *logger.Logger
}

func NewConsoleMailService(log *logger.Logger) MailService {
	serviceLog := log.With("service", "ConsoleMailService")
	return &consoleMailService{log: serviceLog}
}

func (cms *consoleMailService) Send(ctx context.Context, to, subject, html string) error {
	cms.log.Info("Email (console transport)", "to", to, "subject", subject, "body", html)
	return nil
}
