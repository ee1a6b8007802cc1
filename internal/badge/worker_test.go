//go:generate mockgen -source=../eventconfig/client.go -destination=../eventconfig/mocks/mocks.go -package=mocks Gateway

package badge_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"waangu/internal/artifact"
	"waangu/internal/badge"
	ecmodels "waangu/internal/eventconfig/models"
	ecmocks "waangu/internal/eventconfig/mocks"
	mailermocks "waangu/internal/mailer/mocks"
	"waangu/internal/registration/models"
	regstore "waangu/internal/registration/store/registration"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
)

type stubRasterizer struct {
	err   error
	calls int
}

func (s *stubRasterizer) Rasterize(_ context.Context, html string, _, _ float64) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4 " + html[:20]), nil
}

type workerFixture struct {
	registrations *regstore.MemoryStore
	gateway       *ecmocks.MockGateway
	artifacts     *artifact.MemoryStore
	rasterizer    *stubRasterizer
	mailer        *mailermocks.MockMailer
	worker        *badge.Worker
}

func newWorkerFixture(t *testing.T) *workerFixture {
	ctrl := gomock.NewController(t)
	f := &workerFixture{
		registrations: regstore.NewMemory(),
		gateway:       ecmocks.NewMockGateway(ctrl),
		artifacts:     artifact.NewMemory(),
		rasterizer:    &stubRasterizer{},
		mailer:        mailermocks.NewMockMailer(ctrl),
	}
	f.worker = badge.NewWorker(
		f.registrations,
		f.gateway,
		f.artifacts,
		f.rasterizer,
		badge.NewTokenSigner("test-secret"),
		f.mailer,
		"https://scan.example",
	)
	return f
}

func seedRegistration(t *testing.T, store *regstore.MemoryStore) *models.Registration {
	t.Helper()
	now := time.Now()
	reg := &models.Registration{
		ID:               id.NewRegistrationID(),
		TenantID:         id.TenantID(uuid.New()),
		EventID:          id.EventID(uuid.New()),
		Email:            "grace@example.com",
		FirstName:        "Grace",
		LastName:         "Hopper",
		Status:           models.StatusPendingPayment,
		PaymentStatus:    models.PaymentStatusPending,
		BadgeStatus:      models.BadgeStatusPending,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, store.Create(context.Background(), reg))
	return reg
}

func badgeMessage(t *testing.T, reg *models.Registration) []byte {
	t.Helper()
	payload, err := json.Marshal(models.BadgeGenerateEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		TenantID:       reg.TenantID,
		Timestamp:      time.Now(),
	})
	require.NoError(t, err)
	return payload
}

func TestHandle_HappyPath(t *testing.T) {
	f := newWorkerFixture(t)
	reg := seedRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(&ecmodels.EventDetails{ID: reg.EventID, Name: "GopherCon 2025"}, nil)
	f.mailer.EXPECT().
		SendBadgeEmail(gomock.Any(), "grace@example.com", "Grace Hopper", "GopherCon 2025", gomock.Any()).
		Return(nil)

	require.NoError(t, f.worker.Handle(context.Background(), badgeMessage(t, reg)))

	stored, err := f.registrations.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.True(t, stored.BadgeGenerated)
	assert.Equal(t, models.BadgeStatusGenerated, stored.BadgeStatus)
	assert.NotEmpty(t, stored.BadgeURL)
	assert.True(t, f.artifacts.Has(artifact.BadgeKey(reg.TenantID, reg.ID)), "badge PDF must be stored")
}

func TestHandle_EventLookupFailure(t *testing.T) {
	f := newWorkerFixture(t)
	reg := seedRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(nil, sentinel.ErrNotFound)

	err := f.worker.Handle(context.Background(), badgeMessage(t, reg))
	require.Error(t, err, "event lookup failure must surface so the bus dead-letters the message")

	stored, getErr := f.registrations.GetByID(context.Background(), reg.ID)
	require.NoError(t, getErr)
	assert.False(t, stored.BadgeGenerated, "failed saga must not mark the badge generated")
	assert.Equal(t, models.BadgeStatusPending, stored.BadgeStatus)
}

func TestHandle_RegistrationMissingDropped(t *testing.T) {
	f := newWorkerFixture(t)

	payload, err := json.Marshal(models.BadgeGenerateEvent{
		RegistrationID: id.NewRegistrationID(),
		TenantID:       id.TenantID(uuid.New()),
	})
	require.NoError(t, err)

	assert.NoError(t, f.worker.Handle(context.Background(), payload),
		"missing registration is dropped, not dead-lettered")
	assert.Zero(t, f.rasterizer.calls)
}

func TestHandle_IdempotentRerun(t *testing.T) {
	f := newWorkerFixture(t)
	reg := seedRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(&ecmodels.EventDetails{ID: reg.EventID, Name: "GopherCon 2025"}, nil).
		Times(2)
	f.mailer.EXPECT().
		SendBadgeEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	msg := badgeMessage(t, reg)
	require.NoError(t, f.worker.Handle(context.Background(), msg))
	require.NoError(t, f.worker.Handle(context.Background(), msg))

	stored, err := f.registrations.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.True(t, stored.BadgeGenerated, "re-delivery must never leave the badge ungenerated")
	assert.NotEmpty(t, stored.BadgeURL)
	assert.Equal(t, 2, f.rasterizer.calls, "each delivery re-renders the badge")
}

func TestHandle_EmailFailurePropagates(t *testing.T) {
	f := newWorkerFixture(t)
	reg := seedRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(&ecmodels.EventDetails{ID: reg.EventID, Name: "GopherCon 2025"}, nil)
	f.mailer.EXPECT().
		SendBadgeEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("smtp down"))

	err := f.worker.Handle(context.Background(), badgeMessage(t, reg))
	assert.ErrorContains(t, err, "smtp down")
}

func TestHandle_RenderFailure(t *testing.T) {
	f := newWorkerFixture(t)
	reg := seedRegistration(t, f.registrations)
	f.rasterizer.err = errors.New("chrome timeout")

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(&ecmodels.EventDetails{ID: reg.EventID, Name: "GopherCon 2025"}, nil)

	err := f.worker.Handle(context.Background(), badgeMessage(t, reg))
	require.ErrorContains(t, err, "chrome timeout")
	assert.False(t, f.artifacts.Has(artifact.BadgeKey(reg.TenantID, reg.ID)))
}

func TestHandle_MalformedMessage(t *testing.T) {
	f := newWorkerFixture(t)
	err := f.worker.Handle(context.Background(), []byte("not json"))
	assert.Error(t, err)
}
