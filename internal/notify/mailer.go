package notify

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail over SMTP. An empty host disables it the same
// way an empty bot token disables Telegram.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds a mailer from the SMTP settings. secure selects
// implicit TLS; without it the dialer falls back to STARTTLS when the
// server offers it.
func NewMailer(host string, port int, user, pass string, secure bool) *Mailer {
	if host == "" {
		return &Mailer{}
	}
	dialer := gomail.NewDialer(host, port, user, pass)
	dialer.SSL = secure
	return &Mailer{dialer: dialer, from: user}
}

// Send delivers one HTML message.
func (m *Mailer) Send(to, subject, html string) error {
	if m.dialer == nil {
		log.Debug().Str("to", to).Msg("Mail disabled, dropping message")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
