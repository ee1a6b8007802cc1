// Package badge renders event badges and runs the badge generation saga:
// fetch, render, store, update status, notify.
package badge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"waangu/internal/artifact"
	"waangu/internal/eventconfig"
	ecmodels "waangu/internal/eventconfig/models"
	"waangu/internal/mailer"
	"waangu/internal/platform/metrics"
	"waangu/internal/registration/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
	"waangu/pkg/requestcontext"
)

// Presigned badge URLs stay valid for a week; re-running the saga mints a
// fresh one.
const badgeURLTTL = 7 * 24 * time.Hour

// RegistrationStore is the slice of registration persistence the worker
// needs.
type RegistrationStore interface {
	GetByID(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	Update(ctx context.Context, reg *models.Registration) error
}

// Worker consumes badge.generate messages. Each message runs the full saga;
// re-delivery re-runs it end to end (at-least-once, duplicate emails
// accepted).
type Worker struct {
	registrations RegistrationStore
	gateway       eventconfig.Gateway
	artifacts     artifact.Store
	rasterizer    Rasterizer
	signer        *TokenSigner
	mailer        mailer.Mailer
	scanBaseURL   string
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
	rasterizer Rasterizer,
	signer *TokenSigner,
	mail mailer.Mailer,
	scanBaseURL string,
	opts ...WorkerOption,
) *Worker {
	w := &Worker{
		registrations: registrations,
		gateway:       gateway,
		artifacts:     artifacts,
		rasterizer:    rasterizer,
		signer:        signer,
		mailer:        mail,
		scanBaseURL:   scanBaseURL,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Handle is the bus handler for badge.generate. A returned error routes the
// message to the DLQ.
func (w *Worker) Handle(ctx context.Context, payload []byte) error {
	var event models.BadgeGenerateEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode badge.generate message: %w", err)
	}

	if err := w.generate(ctx, event); err != nil {
		if w.metrics != nil {
			w.metrics.BadgesFailed.Inc()
		}
		return err
	}
	return nil
}

func (w *Worker) generate(ctx context.Context, event models.BadgeGenerateEvent) error {
	logger := w.logger.With("registration_id", event.RegistrationID, "tenant_id", event.TenantID)

	reg, err := w.registrations.GetByID(ctx, event.RegistrationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Registration deleted between publish and consume. Nothing to
			// render; drop without dead-lettering.
			logger.Warn("registration not found, dropping badge request")
			return nil
		}
		return fmt.Errorf("fetch registration: %w", err)
	}

	details, err := w.gateway.GetEventByID(ctx, reg.TenantID, reg.EventID)
	if err != nil {
		return fmt.Errorf("fetch event details: %w", err)
	}

	pdf, err := w.render(ctx, reg, details)
	if err != nil {
		return err
	}

	key := artifact.BadgeKey(reg.TenantID, reg.ID)
	if err := w.artifacts.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return fmt.Errorf("store badge: %w", err)
	}

	badgeURL, err := w.artifacts.Presign(ctx, key, badgeURLTTL)
	if err != nil {
		return fmt.Errorf("presign badge: %w", err)
	}

	reg.ApplyBadgeGenerated(badgeURL, requestcontext.Now(ctx))
	if err := w.registrations.Update(ctx, reg); err != nil {
		return fmt.Errorf("update badge status: %w", err)
	}

	if err := w.mailer.SendBadgeEmail(ctx, reg.Email, reg.FullName(), details.Name, badgeURL); err != nil {
		return fmt.Errorf("send badge email: %w", err)
	}

	if w.metrics != nil {
		w.metrics.BadgesGenerated.Inc()
	}
	logger.Info("badge generated", "badge_key", key)
	return nil
}

func (w *Worker) render(ctx context.Context, reg *models.Registration, details *ecmodels.EventDetails) ([]byte, error) {
	token, err := w.signer.Sign(reg.ID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	scanURL := w.scanBaseURL + "?token=" + url.QueryEscape(token)

	qrURI, err := QRDataURI(scanURL)
	if err != nil {
		return nil, err
	}

	html, err := ComposeBadge(BadgeData{
		EventName:    details.Name,
		FullName:     reg.FullName(),
		Organization: reg.Organization,
		Profession:   reg.Profession,
		StartDate:    details.StartDate,
		EndDate:      details.EndDate,
		Venue:        details.Venue,
		QRDataURI:    template.URL(qrURI),
	})
	if err != nil {
		return nil, err
	}

	pdf, err := w.rasterizer.Rasterize(ctx, html, BadgeWidthMM, BadgeHeightMM)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
