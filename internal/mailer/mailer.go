// Package mailer delivers the storefront's buyer-facing emails over SMTP.
// When credentials are missing every send degrades to a warned failure so
// the rest of fulfillment keeps working.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mamba-store/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mail credentials not configured")

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

func New(cfg config.Email, logger zerolog.Logger) *Mailer {
	m := &Mailer{
		from:   cfg.From,
		logger: logger,
	}
	if m.from == "" {
		m.from = cfg.Username
	}

	if !cfg.Configured() {
		logger.Warn().Msg("email credentials missing, outbound mail disabled")
		return m
	}

	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return m
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.dialer == nil {
		m.logger.Warn().Str("to", to).Str("subject", subject).Msg("mail disabled, dropping message")
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}

func (m *Mailer) SendTicketNotice(ctx context.Context, email string) error {
	return m.send(email,
		"Otwórz Ticket - Mamba Obywatel 🐍",
		fmt.Sprintf("<p>Twoje zamówienie zostało potwierdzone. Email: %s</p>", email),
	)
}

func (m *Mailer) SendSubscriptionNotice(ctx context.Context, email string, expiresAt time.Time) error {
	return m.send(email,
		"Twój dostęp do MambaReceipts 🐍",
		fmt.Sprintf("<p>Twój dostęp wygasa: %s</p>", expiresAt.Format("02.01.2006")),
	)
}

func (m *Mailer) SendAccessCodeNotice(ctx context.Context, email, code, generatorLink string) error {
	return m.send(email,
		"Twój kod dostępu - Mamba Obywatel 🐍",
		fmt.Sprintf("<p>Twój kod: %s<br>Generator: %s</p>", code, generatorLink),
	)
}
