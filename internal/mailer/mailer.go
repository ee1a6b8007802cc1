// Package mailer delivers attendee notifications. Failures propagate to
// callers; the worker sagas decide what a failed send means.
package mailer

import (
	"context"
	"log/slog"

	"waangu/internal/platform/config"
)

// Mailer is the email capability consumed by the badge and letter workers.
type Mailer interface {
	SendBadgeEmail(ctx context.Context, to, fullName, eventName, badgeURL string) error
	SendInvitationLetterEmail(ctx context.Context, to, fullName, eventName, letterURL string) error
}

// New builds a mailer from config. Provider "ses" uses AWS SES; "noop" or
// anything unrecognized logs instead of sending.
func New(cfg config.MailerConfig, logger *slog.Logger) Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Provider {
	case "ses":
		return newSES(cfg, logger)
	case "noop":
		return &noopMailer{logger: logger}
	default:
		logger.Warn("unknown mailer provider, using noop", "provider", cfg.Provider)
		return &noopMailer{logger: logger}
	}
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) SendBadgeEmail(_ context.Context, to, fullName, eventName, badgeURL string) error {
	n.logger.Info("badge email skipped (noop mailer)",
		"to", to, "full_name", fullName, "event", eventName, "badge_url", badgeURL)
	return nil
}

func (n *noopMailer) SendInvitationLetterEmail(_ context.Context, to, fullName, eventName, letterURL string) error {
	n.logger.Info("invitation letter email skipped (noop mailer)",
		"to", to, "full_name", fullName, "event", eventName, "letter_url", letterURL)
	return nil
}
