package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/sitepulse/umami-reporter/internal/config"
)

// SMTPSender delivers reports through an SMTP relay with STARTTLS.
type SMTPSender struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPSender creates a sender from SMTP transport settings.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := buildMessage(s.cfg.FromEmail, s.cfg.FromName, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending via smtp: %w", err)
	}
	return nil
}

// buildMessage assembles the MIME message shared by both transports.
func buildMessage(fromEmail, fromName string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", fromEmail, fromName)
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.New(), messageIDDomain(fromEmail)))
	m.SetBody("text/html", msg.HTML)
	if msg.AttachmentPath != "" {
		m.Attach(msg.AttachmentPath)
	}
	return m
}

func messageIDDomain(fromEmail string) string {
	for i := len(fromEmail) - 1; i >= 0; i-- {
		if fromEmail[i] == '@' {
			return fromEmail[i+1:]
		}
	}
	return "localhost"
}
