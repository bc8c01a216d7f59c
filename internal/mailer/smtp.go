package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	mail "github.com/wneessen/go-mail"

	"github.com/stellarhive/account-service/config"
)

// SMTPMailer delivers over SMTP using the settings from config. Each message
// gets a uuid Message-ID so deliveries are traceable in the logs.
type SMTPMailer struct {
	client          *mail.Client
	from            string
	fromName        string
	frontendHost    string
	projectName     string
	expirationHours int
	log             *slog.Logger
}

func NewSMTPMailer(cfg *config.Config, log *slog.Logger) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPMailer{
		client:          client,
		from:            cfg.EmailsFrom,
		fromName:        cfg.EmailsFromName,
		frontendHost:    cfg.FrontendHost,
		projectName:     cfg.ProjectName,
		expirationHours: cfg.EmailExpiryHours,
		log:             log,
	}, nil
}

func (m *SMTPMailer) SendVerification(ctx context.Context, email, firstName, token string) error {
	data, err := verificationEmail(firstName, m.frontendHost, m.projectName, token, m.expirationHours)
	if err != nil {
		return err
	}

	return m.send(ctx, email, data)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, email, firstName string) error {
	data, err := welcomeEmail(firstName, m.projectName)
	if err != nil {
		return err
	}

	return m.send(ctx, email, data)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, firstName, token string) error {
	data, err := passwordResetEmail(firstName, m.frontendHost, m.projectName, token, m.expirationHours)
	if err != nil {
		return err
	}

	return m.send(ctx, email, data)
}

func (m *SMTPMailer) SendAccountRemoval(ctx context.Context, email, firstName, token string) error {
	data, err := accountRemovalEmail(firstName, m.frontendHost, m.projectName, token, m.expirationHours)
	if err != nil {
		return err
	}

	return m.send(ctx, email, data)
}

func (m *SMTPMailer) SendAccountRemoved(ctx context.Context, email, firstName string) error {
	data, err := accountRemovedEmail(firstName, m.projectName)
	if err != nil {
		return err
	}

	return m.send(ctx, email, data)
}

func (m *SMTPMailer) send(ctx context.Context, to string, data emailData) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(data.Subject)
	msg.SetMessageIDWithValue(uuid.NewString())
	msg.SetBodyString(mail.TypeTextHTML, data.HTML)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.InfoContext(ctx, "email sent", "to", to, "subject", data.Subject)

	return nil
}
