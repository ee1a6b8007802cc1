//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"waangu/internal/attendee/models"
	"waangu/internal/attendee/store"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
	"waangu/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "attendees")
	s.Require().NoError(err)
}

func newTestAttendee(tenantID id.TenantID, email string) *models.Attendee {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Attendee{
		ID:        id.NewAttendeeID(),
		TenantID:  tenantID,
		UserID:    id.UserID(uuid.New()),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Phone:     "+31 6 1234 5678",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestUpsertInsertThenUpdate() {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())

	first := newTestAttendee(tenantID, "ada@example.com")
	firstID, err := s.store.Upsert(ctx, first)
	s.Require().NoError(err)
	s.Equal(first.ID, firstID)

	second := newTestAttendee(tenantID, "ada@example.com")
	second.FirstName = "Augusta"
	secondID, err := s.store.Upsert(ctx, second)
	s.Require().NoError(err)
	s.Equal(firstID, secondID, "upsert must keep the original profile ID")

	stored, err := s.store.GetByID(ctx, tenantID, firstID)
	s.Require().NoError(err)
	s.Equal("Augusta", stored.FirstName)
	s.Equal("ada@example.com", stored.Email)
}

func (s *PostgresStoreSuite) TestFindByEmail() {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())

	_, err := s.store.FindByEmail(ctx, tenantID, "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)

	created := newTestAttendee(tenantID, "ada@example.com")
	createdID, err := s.store.Upsert(ctx, created)
	s.Require().NoError(err)

	found, err := s.store.FindByEmail(ctx, tenantID, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(createdID, found.ID)
	s.Equal(created.UserID, found.UserID)
}

func (s *PostgresStoreSuite) TestTenantIsolation() {
	ctx := context.Background()
	tenantA := id.TenantID(uuid.New())
	tenantB := id.TenantID(uuid.New())

	idA, err := s.store.Upsert(ctx, newTestAttendee(tenantA, "same@example.com"))
	s.Require().NoError(err)
	idB, err := s.store.Upsert(ctx, newTestAttendee(tenantB, "same@example.com"))
	s.Require().NoError(err)
	s.NotEqual(idA, idB, "same email in different tenants must stay separate profiles")

	_, err = s.store.GetByID(ctx, tenantA, idB)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindByEmail(ctx, tenantB, "missing@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
