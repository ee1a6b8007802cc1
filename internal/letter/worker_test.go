package letter_test

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
	ecmocks "waangu/internal/eventconfig/mocks"
	ecmodels "waangu/internal/eventconfig/models"
	"waangu/internal/letter"
	mailermocks "waangu/internal/mailer/mocks"
	"waangu/internal/registration/models"
	regstore "waangu/internal/registration/store/registration"
	id "waangu/pkg/domain"
)

type stubRasterizer struct {
	err error
}

func (s *stubRasterizer) Rasterize(_ context.Context, html string, _, _ float64) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	registrations *regstore.MemoryStore
	gateway       *ecmocks.MockGateway
	artifacts     *artifact.MemoryStore
	rasterizer    *stubRasterizer
	mailer        *mailermocks.MockMailer
	worker        *letter.Worker
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		registrations: regstore.NewMemory(),
		gateway:       ecmocks.NewMockGateway(ctrl),
		artifacts:     artifact.NewMemory(),
		rasterizer:    &stubRasterizer{},
		mailer:        mailermocks.NewMockMailer(ctrl),
	}
	f.worker = letter.NewWorker(f.registrations, f.gateway, f.artifacts, f.rasterizer, f.mailer)
	return f
}

func seedForeignRegistration(t *testing.T, store *regstore.MemoryStore) *models.Registration {
	t.Helper()
	now := time.Now()
	reg := &models.Registration{
		ID:               id.NewRegistrationID(),
		TenantID:         id.TenantID(uuid.New()),
		EventID:          id.EventID(uuid.New()),
		Email:            "grace@example.com",
		FirstName:        "Grace",
		LastName:         "Hopper",
		Nationality:      "NL",
		IsForeigner:      true,
		NeedsVisa:        true,
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

func letterMessage(t *testing.T, reg *models.Registration) []byte {
	t.Helper()
	payload, err := json.Marshal(models.LetterGenerateEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		TenantID:       reg.TenantID,
		Timestamp:      time.Now(),
	})
	require.NoError(t, err)
	return payload
}

func TestHandle_HappyPath(t *testing.T) {
	f := newFixture(t)
	reg := seedForeignRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(&ecmodels.EventDetails{
			ID:            reg.EventID,
			Name:          "GopherCon 2025",
			OrganizerName: "Gopher Events BV",
		}, nil)
	f.mailer.EXPECT().
		SendInvitationLetterEmail(gomock.Any(), "grace@example.com", "Grace Hopper", "GopherCon 2025", gomock.Any()).
		Return(nil)

	require.NoError(t, f.worker.Handle(context.Background(), letterMessage(t, reg)))
	assert.True(t, f.artifacts.Has(artifact.LetterKey(reg.TenantID, reg.ID)))
}

func TestHandle_NoRegistrationStateWritten(t *testing.T) {
	f := newFixture(t)
	reg := seedForeignRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(&ecmodels.EventDetails{ID: reg.EventID, Name: "GopherCon 2025"}, nil)
	f.mailer.EXPECT().
		SendInvitationLetterEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	require.NoError(t, f.worker.Handle(context.Background(), letterMessage(t, reg)))

	stored, err := f.registrations.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.False(t, stored.BadgeGenerated, "letter saga must not touch badge state")
	assert.Equal(t, models.BadgeStatusPending, stored.BadgeStatus)
}

func TestHandle_EventLookupFailure(t *testing.T) {
	f := newFixture(t)
	reg := seedForeignRegistration(t, f.registrations)

	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), reg.TenantID, reg.EventID).
		Return(nil, errors.New("gateway down"))

	err := f.worker.Handle(context.Background(), letterMessage(t, reg))
	assert.ErrorContains(t, err, "gateway down")
	assert.False(t, f.artifacts.Has(artifact.LetterKey(reg.TenantID, reg.ID)))
}

func TestHandle_RegistrationMissingDropped(t *testing.T) {
	f := newFixture(t)
	payload, err := json.Marshal(models.LetterGenerateEvent{RegistrationID: id.NewRegistrationID()})
	require.NoError(t, err)
	assert.NoError(t, f.worker.Handle(context.Background(), payload))
}

func TestComposeLetter(t *testing.T) {
	html, err := letter.ComposeLetter(letter.LetterData{
		FullName:         "Grace Hopper",
		Nationality:      "the Netherlands",
		EventName:        "GopherCon 2025",
		StartDate:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
		Venue:            "Convention Center",
		City:             "Amsterdam",
		Country:          "Netherlands",
		OrganizerName:    "Gopher Events BV",
		OrganizerAddress: "Herengracht 1\n1015 Amsterdam",
		IssuedAt:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, "a national of the Netherlands")
	assert.Contains(t, html, "from 1 July 2025 to 3 July 2025")
	assert.Contains(t, html, "Visa Support")
	assert.Contains(t, html, "Gopher Events BV")
	assert.Contains(t, html, "1 June 2025")
}
