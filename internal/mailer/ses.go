package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"waangu/internal/platform/config"
)

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func newSES(cfg config.MailerConfig, logger *slog.Logger) *sesMailer {
	awsCfg := aws.Config{
		Region: cfg.SESRegion,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.SESKeyID, cfg.SESSecret, ""),
		),
	}
	return &sesMailer{
		client:      ses.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      logger,
	}
}

func (s *sesMailer) SendBadgeEmail(ctx context.Context, to, fullName, eventName, badgeURL string) error {
	subject, html, err := renderBadgeEmail(to, fullName, eventName, badgeURL)
	if err != nil {
		return err
	}
	return s.send(ctx, to, subject, html)
}

func (s *sesMailer) SendInvitationLetterEmail(ctx context.Context, to, fullName, eventName, letterURL string) error {
	subject, html, err := renderLetterEmail(to, fullName, eventName, letterURL)
	if err != nil {
		return err
	}
	return s.send(ctx, to, subject, html)
}

func (s *sesMailer) send(ctx context.Context, to, subject, html string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	result, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(html),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	s.logger.Info("email sent", "to", to, "message_id", aws.ToString(result.MessageId))
	return nil
}
