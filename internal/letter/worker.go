package letter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"waangu/internal/artifact"
	"waangu/internal/badge"
	"waangu/internal/eventconfig"
	"waangu/internal/mailer"
	"waangu/internal/platform/metrics"
	"waangu/internal/registration/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
	"waangu/pkg/requestcontext"
)

const letterURLTTL = 7 * 24 * time.Hour

// RegistrationStore is the slice of registration persistence the worker
// needs. Unlike the badge saga, nothing is written back; success is
// observable only through the sent email.
type RegistrationStore interface {
	GetByID(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
}

// Worker consumes invitation.letter.generate messages.
type Worker struct {
	registrations RegistrationStore
	gateway       eventconfig.Gateway
	artifacts     artifact.Store
	rasterizer    badge.Rasterizer
	mailer        mailer.Mailer
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type WorkerOption func(*Worker)

func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) { w.logger = logger }
}

func WithMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) { w.metrics = m }
}

func NewWorker(
	registrations RegistrationStore,
	gateway eventconfig.Gateway,
	artifacts artifact.Store,
	rasterizer badge.Rasterizer,
	mail mailer.Mailer,
	opts ...WorkerOption,
) *Worker {
	w := &Worker{
		registrations: registrations,
		gateway:       gateway,
		artifacts:     artifacts,
		rasterizer:    rasterizer,
		mailer:        mail,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Handle is the bus handler for invitation.letter.generate. A returned error
// routes the message to the DLQ.
func (w *Worker) Handle(ctx context.Context, payload []byte) error {
	var event models.LetterGenerateEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode invitation.letter.generate message: %w", err)
	}

	if err := w.generate(ctx, event); err != nil {
		if w.metrics != nil {
			w.metrics.LettersFailed.Inc()
		}
		return err
	}
	return nil
}

func (w *Worker) generate(ctx context.Context, event models.LetterGenerateEvent) error {
	logger := w.logger.With("registration_id", event.RegistrationID, "tenant_id", event.TenantID)

	reg, err := w.registrations.GetByID(ctx, event.RegistrationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			logger.Warn("registration not found, dropping letter request")
			return nil
		}
		return fmt.Errorf("fetch registration: %w", err)
	}

	details, err := w.gateway.GetEventByID(ctx, reg.TenantID, reg.EventID)
	if err != nil {
		return fmt.Errorf("fetch event details: %w", err)
	}

	html, err := ComposeLetter(LetterData{
		FullName:         reg.FullName(),
		Nationality:      reg.Nationality,
		EventName:        details.Name,
		StartDate:        details.StartDate,
		EndDate:          details.EndDate,
		Venue:            details.Venue,
		City:             details.City,
		Country:          details.Country,
		OrganizerName:    details.OrganizerName,
		OrganizerAddress: details.OrganizerAddress,
		LogoURL:          details.LogoURL,
		IssuedAt:         requestcontext.Now(ctx),
	})
	if err != nil {
		return err
	}

	pdf, err := w.rasterizer.Rasterize(ctx, html, LetterWidthMM, LetterHeightMM)
	if err != nil {
		return fmt.Errorf("render invitation letter: %w", err)
	}

	key := artifact.LetterKey(reg.TenantID, reg.ID)
	if err := w.artifacts.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return fmt.Errorf("store invitation letter: %w", err)
	}

	letterURL, err := w.artifacts.Presign(ctx, key, letterURLTTL)
	if err != nil {
		return fmt.Errorf("presign invitation letter: %w", err)
	}

	if err := w.mailer.SendInvitationLetterEmail(ctx, reg.Email, reg.FullName(), details.Name, letterURL); err != nil {
		return fmt.Errorf("send invitation letter email: %w", err)
	}

	if w.metrics != nil {
		w.metrics.LettersGenerated.Inc()
	}
	logger.Info("invitation letter generated", "letter_key", key)
	return nil
}
