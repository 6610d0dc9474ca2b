// Package delivery sends rendered reports by email. Two transports are
// supported: direct SMTP and AWS SES. Delivery failures are logged by
// callers and never abort the batch.
package delivery

import (
	"context"
	"fmt"

	"github.com/sitepulse/umami-reporter/internal/config"
)

// Message is one outbound report email.
type Message struct {
	Subject        string
	HTML           string
	Recipients     []string
	AttachmentPath string // optional
}

// Sender delivers report emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the transport selected by the delivery config.
func New(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.Delivery.Transport {
	case "smtp":
		return NewSMTPSender(cfg.SMTP), nil
	case "ses":
		return NewSESSender(ctx, cfg.SES)
	default:
		return nil, fmt.Errorf("unknown delivery transport %q", cfg.Delivery.Transport)
	}
}
