// Package email renders notification emails and delivers them through SMTP,
// the Resend API, or the log.
package email

import (
	"context"
	"fmt"

	"groop/internal/config"

	"github.com/rs/zerolog"
)

const senderName = "Groop"

// Message is a rendered email ready to be sent.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns the transport selected by MAIL_PROVIDER.
func NewSender(cfg *config.Config, logger zerolog.Logger) (Sender, error) {
	from := fmt.Sprintf("%s <%s>", senderName, cfg.MailFrom)

	switch cfg.MailProvider {
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, from), nil
	case "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
