package delivery

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/sitepulse/umami-reporter/internal/config"
)

// SESSender delivers reports through AWS SES v2. The full MIME message is
// built locally so attachments work the same as over SMTP.
type SESSender struct {
	client *sesv2.Client
	cfg    config.SESConfig
}

// NewSESSender creates a SES client with static credentials.
func NewSESSender(ctx context.Context, cfg config.SESConfig) (*SESSender, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESSender{
		client: sesv2.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

// Send implements Sender.
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	m := buildMessage(s.cfg.FromEmail, s.cfg.FromName, msg)

	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return fmt.Errorf("assembling MIME message: %w", err)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.cfg.FromEmail),
		Destination: &types.Destination{
			ToAddresses: msg.Recipients,
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw.Bytes()},
		},
	})
	if err != nil {
		return fmt.Errorf("sending via ses: %w", err)
	}
	return nil
}
