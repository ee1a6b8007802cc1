package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"waangu/internal/attendee/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
	txcontext "waangu/pkg/platform/tx"
)

// PostgresStore persists attendee profiles in PostgreSQL. Writes resolve the
// context transaction so the upsert joins the registration creation
// transaction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed attendee store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Upsert inserts the attendee or, when a profile with the same
// (tenant, email) exists, refreshes its mutable fields. Returns the ID of the
// surviving row either way.
func (s *PostgresStore) Upsert(ctx context.Context, attendee *models.Attendee) (id.AttendeeID, error) {
	if attendee == nil {
		return id.AttendeeID{}, fmt.Errorf("attendee is required")
	}

	query := `
		INSERT INTO attendees (id, tenant_id, user_id, first_name, last_name, email, phone, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT attendees_tenant_email_key DO UPDATE SET
			user_id    = EXCLUDED.user_id,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			phone      = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	var attendeeID uuid.UUID
	err := txcontext.Resolve(ctx, s.db).QueryRowContext(ctx, query,
		uuid.UUID(attendee.ID),
		uuid.UUID(attendee.TenantID),
		nullUUID(uuid.UUID(attendee.UserID)),
		attendee.FirstName,
		attendee.LastName,
		attendee.Email,
		attendee.Phone,
		attendee.ImageURL,
		attendee.CreatedAt,
		attendee.UpdatedAt,
	).Scan(&attendeeID)
	if err != nil {
		return id.AttendeeID{}, fmt.Errorf("upsert attendee: %w", err)
	}
	return id.AttendeeID(attendeeID), nil
}

// FindByEmail looks up the tenant's attendee profile by email.
func (s *PostgresStore) FindByEmail(ctx context.Context, tenantID id.TenantID, email string) (*models.Attendee, error) {
	query := `
		SELECT id, tenant_id, user_id, first_name, last_name, email, phone, image_url, created_at, updated_at
		FROM attendees
		WHERE tenant_id = $1 AND email = $2
	`
	row := txcontext.Resolve(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), email)
	attendee, err := scanAttendee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find attendee by email: %w", err)
	}
	return attendee, nil
}

// GetByID looks up a tenant's attendee profile by ID.
func (s *PostgresStore) GetByID(ctx context.Context, tenantID id.TenantID, attendeeID id.AttendeeID) (*models.Attendee, error) {
	query := `
		SELECT id, tenant_id, user_id, first_name, last_name, email, phone, image_url, created_at, updated_at
		FROM attendees
		WHERE tenant_id = $1 AND id = $2
	`
	row := txcontext.Resolve(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(attendeeID))
	attendee, err := scanAttendee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return attendee, nil
}

func scanAttendee(row *sql.Row) (*models.Attendee, error) {
	var (
		a      models.Attendee
		userID uuid.NullUUID
	)
	err := row.Scan(
		(*uuid.UUID)(&a.ID),
		(*uuid.UUID)(&a.TenantID),
		&userID,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.Phone,
		&a.ImageURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		a.UserID = id.UserID(userID.UUID)
	}
	return &a, nil
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
