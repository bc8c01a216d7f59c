package mailer

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=mocks github.com/stellarhive/account-service/internal/mailer Mailer

import (
	"context"
	"log/slog"
)

// Mailer is the outbound notification port. Implementations deliver
// best-effort; callers log failures and never surface them to HTTP clients.
type Mailer interface {
	SendVerification(ctx context.Context, email, firstName, token string) error
	SendWelcome(ctx context.Context, email, firstName string) error
	SendPasswordReset(ctx context.Context, email, firstName, token string) error
	SendAccountRemoval(ctx context.Context, email, firstName, token string) error
	SendAccountRemoved(ctx context.Context, email, firstName string) error
}

// LogMailer stands in when SMTP is not configured: it renders nothing and
// records every would-be delivery in the log.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerification(ctx context.Context, email, _, _ string) error {
	m.log.InfoContext(ctx, "email delivery disabled, skipping verification email", "to", email)
	return nil
}

func (m *LogMailer) SendWelcome(ctx context.Context, email, _ string) error {
	m.log.InfoContext(ctx, "email delivery disabled, skipping welcome email", "to", email)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, _, _ string) error {
	m.log.InfoContext(ctx, "email delivery disabled, skipping password reset email", "to", email)
	return nil
}

func (m *LogMailer) SendAccountRemoval(ctx context.Context, email, _, _ string) error {
	m.log.InfoContext(ctx, "email delivery disabled, skipping account removal email", "to", email)
	return nil
}

func (m *LogMailer) SendAccountRemoved(ctx context.Context, email, _ string) error {
	m.log.InfoContext(ctx, "email delivery disabled, skipping account removed email", "to", email)
	return nil
}
