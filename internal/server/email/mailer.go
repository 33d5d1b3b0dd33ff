// Package email delivers verification and password-reset messages over
// SMTP. Delivery failures never propagate past the service boundary; callers
// log and move on.
package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/celestia-oracle/celestia/internal/logging"
	"github.com/sethvargo/go-retry"
	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned when SMTP credentials are missing. The flow
// that requested delivery still succeeds; the failure is only logged.
var ErrNotConfigured = errors.New("smtp not configured")

type Mailer interface {
	SendVerification(ctx context.Context, to, username, token string) error
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

// SMTPMailer sends HTML mail through a STARTTLS SMTP relay. Transient send
// failures are retried with fibonacci backoff before giving up.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	appURL   string
	logger   logging.Logger
}

func NewSMTPMailer(host string, port int, user, password, from, appURL string, logger logging.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		appURL:   appURL,
		logger:   logger,
	}
}

// SendVerification delivers the email-verification link for the token.
func (m *SMTPMailer) SendVerification(ctx context.Context, to, username, token string) error {
	url := fmt.Sprintf("%s/verify-email?token=%s", m.appURL, token)
	body, err := verificationBody(username, url)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Verify Your Email - Constellation Fortune Teller", body)
}

// SendPasswordReset delivers the password-reset link for the token.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	url := fmt.Sprintf("%s/reset-password?token=%s", m.appURL, token)
	body, err := resetBody(username, url)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Reset Your Password - Constellation Fortune Teller", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if m.user == "" || m.password == "" {
		m.logger.Warn(ctx, "email not configured, skipping delivery", "to", to, "subject", subject)
		return ErrNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client error: %w", err)
	}

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := client.DialAndSendWithContext(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
