package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"citizen-services/internal/config"
)

// Email is a single outbound plain-text message with exactly one recipient.
type Email struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Mailer delivers an email. Implementations must return the transport
// error to the caller; delivery failures are never swallowed.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NewMailer builds the mailer selected by the email provider config.
func NewMailer(cfg *config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return &SMTPMailer{config: cfg}, nil
	case "sendgrid":
		return &SendGridMailer{config: cfg}, nil
	default:
		return nil, errors.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	config *config.EmailConfig
}

func (m *SMTPMailer) Send(_ context.Context, email Email) error {
	msg := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		email.To, email.From, email.Subject, email.Body)

	var auth smtp.Auth
	if m.config.SMTP.Username != "" {
		auth = smtp.PlainAuth("", m.config.SMTP.Username, m.config.SMTP.Password, m.config.SMTP.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.config.SMTP.Host, m.config.SMTP.Port)
	if err := smtp.SendMail(addr, auth, email.From, []string{email.To}, []byte(msg)); err != nil {
		return errors.Wrap(err, "failed to send email via SMTP")
	}
	return nil
}

// SendGridMailer sends mail through the SendGrid API.
type SendGridMailer struct {
	config *config.EmailConfig
}

func (m *SendGridMailer) Send(ctx context.Context, email Email) error {
	from := sgmail.NewEmail(m.config.FromName, email.From)
	to := sgmail.NewEmail("", email.To)
	message := sgmail.NewSingleEmailPlainText(from, email.Subject, to, email.Body)

	client := sendgrid.NewSendClient(m.config.SendGrid.APIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrap(err, "failed to send email via SendGrid")
	}
	if resp.StatusCode >= 400 {
		return errors.Errorf("SendGrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}
