// Package service implements the registration transaction manager: the single
// writer of registration state. A registration is either fully created,
// including its QR artifact, or not created at all.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	attendeemodels "waangu/internal/attendee/models"
	"waangu/internal/artifact"
	"waangu/internal/badge"
	"waangu/internal/eventconfig"
	ecmodels "waangu/internal/eventconfig/models"
	filemodels "waangu/internal/filereference/models"
	"waangu/internal/platform/metrics"
	platformredis "waangu/internal/platform/redis"
	"waangu/internal/registration/models"
	id "waangu/pkg/domain"
	dErrors "waangu/pkg/domain-errors"
	"waangu/pkg/platform/sentinel"
	pstrings "waangu/pkg/platform/strings"
	"waangu/pkg/requestcontext"
)

// scanGuardTTL bounds the Redis replay-guard key. Longer than any plausible
// double-scan window; the persisted QRValidated flag is the durable record.
const scanGuardTTL = 24 * time.Hour

type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	ExistsByEventAndEmail(ctx context.Context, tenantID id.TenantID, eventID id.EventID, email string) (bool, error)
	GetByID(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	GetByIDWithTenant(ctx context.Context, tenantID id.TenantID, regID id.RegistrationID) (*models.Registration, error)
	List(ctx context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.Registration, error)
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, tenantID id.TenantID, regID id.RegistrationID) error
}

type AttendeeStore interface {
	Upsert(ctx context.Context, attendee *attendeemodels.Attendee) (id.AttendeeID, error)
}

type FileReferenceStore interface {
	Create(ctx context.Context, ref *filemodels.FileReference) error
	GetByID(ctx context.Context, tenantID id.TenantID, fileID id.FileID) (*filemodels.FileReference, error)
	Delete(ctx context.Context, tenantID id.TenantID, fileID id.FileID) error
}

// EventPublisher is the producing half of the message bus. Produce reports
// failure synchronously; the caller decides whether that failure matters.
type EventPublisher interface {
	Produce(ctx context.Context, topic string, v any) error
}

// Service orchestrates registration creation, mutation, and scan validation.
type Service struct {
	registrations RegistrationStore
	attendees     AttendeeStore
	files         FileReferenceStore
	artifacts     artifact.Store
	gateway       eventconfig.Gateway
	publisher     EventPublisher
	signer        *badge.TokenSigner
	tx            StoreTx
	replayGuard   *platformredis.Client
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithReplayGuard enables the Redis guard against concurrent double scans of
// the same badge. Without it the persisted QRValidated flag is the only check.
func WithReplayGuard(client *platformredis.Client) Option {
	return func(s *Service) {
		s.replayGuard = client
	}
}

// New constructs a Service.
func New(
	registrations RegistrationStore,
	attendees AttendeeStore,
	files FileReferenceStore,
	artifacts artifact.Store,
	gateway eventconfig.Gateway,
	publisher EventPublisher,
	signer *badge.TokenSigner,
	tx StoreTx,
	opts ...Option,
) *Service {
	s := &Service{
		registrations: registrations,
		attendees:     attendees,
		files:         files,
		artifacts:     artifacts,
		gateway:       gateway,
		publisher:     publisher,
		signer:        signer,
		tx:            tx,
		logger:        slog.Default(),
		tracer:        otel.Tracer("waangu/registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// qrPayload is what the QR image on the badge encodes alongside the signed
// scan URL minted later by the badge worker.
type qrPayload struct {
	EventID        id.EventID        `json:"eventId"`
	RegistrationID id.RegistrationID `json:"registrationId"`
	Timestamp      time.Time         `json:"timestamp"`
}

// Create runs the registration creation transaction. On success the committed
// aggregate is returned together with a human-readable confirmation message,
// and the creation events are published best-effort.
func (s *Service) Create(ctx context.Context, dto CreateRegistrationDTO) (*models.Registration, string, error) {
	tenantID := requestcontext.TenantID(ctx)
	userID := requestcontext.UserID(ctx)

	if tenantID.IsNil() {
		return nil, "", dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	if dto.EventID.IsNil() {
		return nil, "", dErrors.New(dErrors.CodeInvalidInput, "event id is required")
	}
	email := strings.TrimSpace(dto.Email)
	if email == "" {
		return nil, "", dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if dto.NeedsVisa {
		if missing := missingVisaFields(&dto); len(missing) > 0 {
			return nil, "", dErrors.New(dErrors.CodeValidation,
				"visa fields missing: "+strings.Join(missing, ", "))
		}
	}
	if dto.Status != nil && !dto.Status.Valid() {
		return nil, "", dErrors.New(dErrors.CodeValidation, "invalid status: "+string(*dto.Status))
	}
	if dto.PaymentStatus != nil && !dto.PaymentStatus.Valid() {
		return nil, "", dErrors.New(dErrors.CodeValidation, "invalid payment status: "+string(*dto.PaymentStatus))
	}

	ctx, span := s.tracer.Start(ctx, "registration.create")
	defer span.End()

	var (
		reg     *models.Registration
		details *ecmodels.EventDetails
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.registrations.ExistsByEventAndEmail(txCtx, tenantID, dto.EventID, email)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registrations")
		}
		if exists {
			return dErrors.New(dErrors.CodeConflict, "registration already exists for this event and email")
		}

		cfg, err := s.gateway.GetEventConfig(txCtx, tenantID, dto.EventID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "event configuration not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch event configuration")
		}
		details, err = s.gateway.GetEventByID(txCtx, tenantID, dto.EventID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "event not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch event details")
		}

		submitted := &models.Registration{Documents: dto.Documents}
		requiredIDs := pstrings.DedupeAndTrim(cfg.RequiredDocumentIDs())
		if missing := submitted.MissingDocuments(requiredIDs); len(missing) > 0 {
			return dErrors.New(dErrors.CodeValidation,
				"required documents missing: "+strings.Join(missing, ", "))
		}

		now := requestcontext.Now(txCtx)

		attendeeID, err := s.attendees.Upsert(txCtx, &attendeemodels.Attendee{
			ID:        id.NewAttendeeID(),
			TenantID:  tenantID,
			UserID:    userID,
			FirstName: dto.FirstName,
			LastName:  dto.LastName,
			Email:     email,
			Phone:     dto.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to upsert attendee")
		}

		tariffID, price := selectTariff(cfg.TariffRules, now)
		if dto.AssignedTariffID != nil {
			tariffID = *dto.AssignedTariffID
		}
		if dto.Price != nil {
			price = *dto.Price
		}

		regID := id.NewRegistrationID()
		qrFileID, err := s.createQRArtifact(txCtx, tenantID, userID, dto.EventID, regID, now)
		if err != nil {
			return err
		}

		status := models.StatusPendingPayment
		if dto.Status != nil {
			status = *dto.Status
		}
		paymentStatus := models.PaymentStatusPending
		if dto.PaymentStatus != nil {
			paymentStatus = *dto.PaymentStatus
		}

		reg = &models.Registration{
			ID:         regID,
			TenantID:   tenantID,
			EventID:    dto.EventID,
			UserID:     userID,
			AttendeeID: attendeeID,

			FirstName:           dto.FirstName,
			LastName:            dto.LastName,
			Email:               email,
			Phone:               dto.Phone,
			Organization:        dto.Organization,
			Profession:          dto.Profession,
			Language:            dto.Language,
			SpecialRequirements: dto.SpecialRequirements,

			Nationality:     dto.Nationality,
			CountryOfBirth:  dto.CountryOfBirth,
			IsForeigner:     dto.IsForeigner,
			NeedsVisa:       dto.NeedsVisa,
			DocumentNumber:  dto.DocumentNumber,
			DateOfIssue:     dto.DateOfIssue,
			ExpirationDate:  dto.ExpirationDate,
			PassportPhotoID: dto.PassportPhotoID,
			PassportCopyID:  dto.PassportCopyID,

			Documents: dto.Documents,

			Status:           status,
			PaymentStatus:    paymentStatus,
			AssignedTariffID: tariffID,
			Price:            price,

			BadgeStatus: models.BadgeStatusPending,

			QRCodeFileID: qrFileID,

			RegistrationDate: now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.registrations.Create(txCtx, reg); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "registration already exists for this event and email")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration")
		}
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.incrementConflicts()
		}
		return nil, "", err
	}

	s.incrementCreated()
	s.logger.Info("registration created",
		"registration_id", reg.ID,
		"tenant_id", reg.TenantID,
		"event_id", reg.EventID)

	s.publishCreationEvents(ctx, reg, details)

	return reg, "Registration created successfully", nil
}

// createQRArtifact renders the QR image, stores the object, and persists its
// file-reference row inside the running transaction.
func (s *Service) createQRArtifact(
	ctx context.Context,
	tenantID id.TenantID,
	userID id.UserID,
	eventID id.EventID,
	regID id.RegistrationID,
	now time.Time,
) (id.FileID, error) {
	payload, err := json.Marshal(qrPayload{EventID: eventID, RegistrationID: regID, Timestamp: now})
	if err != nil {
		return id.FileID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode qr payload")
	}
	png, err := badge.RenderQR(string(payload))
	if err != nil {
		return id.FileID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render qr code")
	}

	fileID := id.NewFileID()
	key := artifact.ObjectKey(tenantID, fileID, "png")
	if err := s.artifacts.Put(ctx, key, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		return id.FileID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store qr artifact")
	}
	if err := s.files.Create(ctx, &filemodels.FileReference{
		ID:         fileID,
		TenantID:   tenantID,
		Path:       key,
		FileType:   "image/png",
		Label:      "qr-code",
		UploadedBy: userID,
		CreatedAt:  now,
	}); err != nil {
		return id.FileID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist qr file reference")
	}
	return fileID, nil
}

// publishCreationEvents runs after commit. Ordering is fixed: created, then
// badge, then letter for visa-needing foreigners. Failures are logged and
// never roll back the committed registration.
func (s *Service) publishCreationEvents(ctx context.Context, reg *models.Registration, details *ecmodels.EventDetails) {
	now := requestcontext.Now(ctx)
	var eventName string
	if details != nil {
		eventName = details.Name
	}

	s.publish(ctx, models.TopicRegistrationCreated, models.RegistrationCreatedEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		TenantID:       reg.TenantID,
		Timestamp:      now,
		Registration:   reg,
	})
	s.publish(ctx, models.TopicBadgeGenerate, models.BadgeGenerateEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		TenantID:       reg.TenantID,
		Timestamp:      now,
		EventName:      eventName,
	})
	if reg.RequiresInvitationLetter() {
		s.publish(ctx, models.TopicLetterGenerate, models.LetterGenerateEvent{
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			UserID:         reg.UserID,
			TenantID:       reg.TenantID,
			Timestamp:      now,
			EventName:      eventName,
		})
	}
}

func (s *Service) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Produce(ctx, topic, event); err != nil {
		s.logger.Error("failed to publish event", "topic", topic, "error", err)
	}
}

// Get returns one registration scoped to the request tenant.
func (s *Service) Get(ctx context.Context, regID id.RegistrationID) (*models.Registration, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	reg, err := s.registrations.GetByIDWithTenant(ctx, tenantID, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return reg, nil
}

// List returns the tenant's registrations, newest first, optionally filtered
// by event, status, or payment status.
func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Registration, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	regs, err := s.registrations.List(ctx, tenantID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// Update applies a partial field merge and publishes the diff. Tariff and
// price are never re-derived here; callers set them explicitly if needed.
func (s *Service) Update(ctx context.Context, regID id.RegistrationID, dto UpdateRegistrationDTO) (*models.Registration, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	if dto.Status != nil && !dto.Status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+string(*dto.Status))
	}
	if dto.PaymentStatus != nil && !dto.PaymentStatus.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid payment status: "+string(*dto.PaymentStatus))
	}

	reg, err := s.registrations.GetByIDWithTenant(ctx, tenantID, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	changes := applyUpdate(reg, dto)
	if len(changes) == 0 {
		return reg, nil
	}
	reg.UpdatedAt = requestcontext.Now(ctx)

	if err := s.registrations.Update(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "registration already exists for this event and email")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registration")
	}

	s.publish(ctx, models.TopicRegistrationUpdated, models.RegistrationUpdatedEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		TenantID:       reg.TenantID,
		Timestamp:      requestcontext.Now(ctx),
		Changes:        changes,
	})
	return reg, nil
}

// Delete hard-deletes the registration and publishes the deletion. The QR
// artifact is deliberately left behind.
func (s *Service) Delete(ctx context.Context, regID id.RegistrationID) error {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}

	reg, err := s.registrations.GetByIDWithTenant(ctx, tenantID, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	if err := s.registrations.Delete(ctx, tenantID, regID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete registration")
	}

	s.publish(ctx, models.TopicRegistrationDeleted, models.RegistrationDeletedEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		TenantID:       reg.TenantID,
		Timestamp:      requestcontext.Now(ctx),
	})
	return nil
}

// UpdateBadgeStatus records the outcome of a badge generation attempt.
func (s *Service) UpdateBadgeStatus(ctx context.Context, regID id.RegistrationID, badgeURL string, generated bool) error {
	reg, err := s.registrations.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	now := requestcontext.Now(ctx)
	if generated {
		reg.ApplyBadgeGenerated(badgeURL, now)
	} else {
		reg.ApplyBadgeFailed(now)
	}
	if err := s.registrations.Update(ctx, reg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update badge status")
	}
	return nil
}

func (s *Service) incrementCreated() {
	if s.metrics != nil {
		s.metrics.RegistrationsCreated.Inc()
	}
}

func (s *Service) incrementConflicts() {
	if s.metrics != nil {
		s.metrics.RegistrationConflicts.Inc()
	}
}

// missingVisaFields names the visa fields absent from a needsVisa submission,
// using the wire field names callers submitted.
func missingVisaFields(dto *CreateRegistrationDTO) []string {
	var missing []string
	if dto.DocumentNumber == "" {
		missing = append(missing, "documentNumber")
	}
	if dto.PassportPhotoID == nil {
		missing = append(missing, "passportPhotoId")
	}
	if dto.PassportCopyID == nil {
		missing = append(missing, "passportCopyId")
	}
	if dto.Nationality == "" {
		missing = append(missing, "nationality")
	}
	if dto.CountryOfBirth == "" {
		missing = append(missing, "countryOfBirth")
	}
	if dto.DateOfIssue == nil {
		missing = append(missing, "dateOfIssue")
	}
	if dto.ExpirationDate == nil {
		missing = append(missing, "expirationDate")
	}
	return missing
}

// selectTariff picks the rule whose window contains now, else the first
// configured rule, else price 0 with no tariff assigned.
func selectTariff(rules []ecmodels.TariffRule, now time.Time) (string, float64) {
	for _, rule := range rules {
		if rule.ActiveAt(now) {
			return rule.ID, rule.Amount
		}
	}
	if len(rules) > 0 {
		return rules[0].ID, rules[0].Amount
	}
	return "", 0
}

// applyUpdate merges non-nil dto fields into reg and returns the diff keyed
// by wire field names.
func applyUpdate(reg *models.Registration, dto UpdateRegistrationDTO) map[string]any {
	changes := make(map[string]any)
	setString := func(field string, target *string, value *string) {
		if value != nil && *value != *target {
			*target = *value
			changes[field] = *value
		}
	}
	setString("firstName", &reg.FirstName, dto.FirstName)
	setString("lastName", &reg.LastName, dto.LastName)
	setString("phone", &reg.Phone, dto.Phone)
	setString("organization", &reg.Organization, dto.Organization)
	setString("profession", &reg.Profession, dto.Profession)
	setString("language", &reg.Language, dto.Language)
	setString("specialRequirements", &reg.SpecialRequirements, dto.SpecialRequirements)
	setString("assignedTariffId", &reg.AssignedTariffID, dto.AssignedTariffID)
	setString("nationality", &reg.Nationality, dto.Nationality)
	setString("countryOfBirth", &reg.CountryOfBirth, dto.CountryOfBirth)
	setString("documentNumber", &reg.DocumentNumber, dto.DocumentNumber)

	setBool := func(field string, target *bool, value *bool) {
		if value != nil && *value != *target {
			*target = *value
			changes[field] = *value
		}
	}
	setBool("isForeigner", &reg.IsForeigner, dto.IsForeigner)
	setBool("needsVisa", &reg.NeedsVisa, dto.NeedsVisa)

	setTime := func(field string, target **time.Time, value *time.Time) {
		if value != nil && (*target == nil || !(*target).Equal(*value)) {
			*target = value
			changes[field] = *value
		}
	}
	setTime("dateOfIssue", &reg.DateOfIssue, dto.DateOfIssue)
	setTime("expirationDate", &reg.ExpirationDate, dto.ExpirationDate)

	setFileID := func(field string, target **id.FileID, value *id.FileID) {
		if value != nil && (*target == nil || **target != *value) {
			*target = value
			changes[field] = *value
		}
	}
	setFileID("passportPhotoId", &reg.PassportPhotoID, dto.PassportPhotoID)
	setFileID("passportCopyId", &reg.PassportCopyID, dto.PassportCopyID)

	if dto.Documents != nil && !slices.Equal(dto.Documents, reg.Documents) {
		reg.Documents = dto.Documents
		changes["documents"] = dto.Documents
	}

	if dto.Status != nil && *dto.Status != reg.Status {
		reg.Status = *dto.Status
		changes["status"] = *dto.Status
	}
	if dto.PaymentStatus != nil && *dto.PaymentStatus != reg.PaymentStatus {
		reg.PaymentStatus = *dto.PaymentStatus
		changes["paymentStatus"] = *dto.PaymentStatus
	}
	if dto.Price != nil && *dto.Price != reg.Price {
		reg.Price = *dto.Price
		changes["price"] = *dto.Price
	}
	return changes
}
