// Package registration persists the registration aggregate. The unique
// constraint on (tenant_id, event_id, email) is the race backstop behind the
// service's pre-write duplicate check.
package registration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"waangu/internal/registration/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
	txcontext "waangu/pkg/platform/tx"
)

const uniqueViolation = "23505"

const registrationColumns = `
	id, tenant_id, event_id, user_id, attendee_id,
	first_name, last_name, email, phone, organization, profession, language, special_requirements,
	nationality, country_of_birth, is_foreigner, needs_visa, document_number,
	date_of_issue, expiration_date, passport_photo_id, passport_copy_id,
	documents, status, payment_status, assigned_tariff_id, price,
	badge_status, badge_generated, badge_url, badge_retry_count,
	qr_code_file_id, qr_validated, last_validation_at,
	registration_date, created_at, updated_at`

// PostgresStore persists registrations in PostgreSQL. Writes resolve the
// context transaction during the creation path.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	documents, err := json.Marshal(reg.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37)
	`
	_, err = txcontext.Resolve(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(reg.ID),
		uuid.UUID(reg.TenantID),
		uuid.UUID(reg.EventID),
		nullUUID(uuid.UUID(reg.UserID)),
		nullUUID(uuid.UUID(reg.AttendeeID)),
		reg.FirstName,
		reg.LastName,
		reg.Email,
		reg.Phone,
		reg.Organization,
		reg.Profession,
		reg.Language,
		reg.SpecialRequirements,
		reg.Nationality,
		reg.CountryOfBirth,
		reg.IsForeigner,
		reg.NeedsVisa,
		reg.DocumentNumber,
		reg.DateOfIssue,
		reg.ExpirationDate,
		nullFileID(reg.PassportPhotoID),
		nullFileID(reg.PassportCopyID),
		documents,
		string(reg.Status),
		string(reg.PaymentStatus),
		reg.AssignedTariffID,
		reg.Price,
		string(reg.BadgeStatus),
		reg.BadgeGenerated,
		reg.BadgeURL,
		reg.BadgeRetryCount,
		nullUUID(uuid.UUID(reg.QRCodeFileID)),
		reg.QRValidated,
		reg.LastValidationAt,
		reg.RegistrationDate,
		reg.CreatedAt,
		reg.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// ExistsByEventAndEmail is the pre-write duplicate check, run inside the
// creation transaction.
func (s *PostgresStore) ExistsByEventAndEmail(ctx context.Context, tenantID id.TenantID, eventID id.EventID, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE tenant_id = $1 AND event_id = $2 AND email = $3
		)
	`
	var exists bool
	err := txcontext.Resolve(ctx, s.db).QueryRowContext(ctx, query,
		uuid.UUID(tenantID), uuid.UUID(eventID), email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration existence: %w", err)
	}
	return exists, nil
}

// GetByID fetches a registration without tenant scoping. Used by the async
// workers, whose messages already carry trusted tenant context.
func (s *PostgresStore) GetByID(ctx context.Context, regID id.RegistrationID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return s.queryOne(ctx, query, uuid.UUID(regID))
}

// GetByIDWithTenant fetches a registration scoped to a tenant.
func (s *PostgresStore) GetByIDWithTenant(ctx context.Context, tenantID id.TenantID, regID id.RegistrationID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tenant_id = $1 AND id = $2`
	return s.queryOne(ctx, query, uuid.UUID(tenantID), uuid.UUID(regID))
}

func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tenant_id = $1`
	args := []any{uuid.UUID(tenantID)}

	if filter.EventID != nil {
		args = append(args, uuid.UUID(*filter.EventID))
		query += fmt.Sprintf(" AND event_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.PaymentStatus != nil {
		args = append(args, string(*filter.PaymentStatus))
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := txcontext.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// Update writes the full aggregate back. The row must belong to the
// registration's tenant.
func (s *PostgresStore) Update(ctx context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	documents, err := json.Marshal(reg.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	query := `
		UPDATE registrations SET
			first_name = $3, last_name = $4, email = $5, phone = $6,
			organization = $7, profession = $8, language = $9, special_requirements = $10,
			nationality = $11, country_of_birth = $12, is_foreigner = $13, needs_visa = $14,
			document_number = $15, date_of_issue = $16, expiration_date = $17,
			passport_photo_id = $18, passport_copy_id = $19,
			documents = $20, status = $21, payment_status = $22, assigned_tariff_id = $23, price = $24,
			badge_status = $25, badge_generated = $26, badge_url = $27, badge_retry_count = $28,
			qr_validated = $29, last_validation_at = $30, updated_at = $31
		WHERE tenant_id = $1 AND id = $2
	`
	res, err := txcontext.Resolve(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(reg.TenantID),
		uuid.UUID(reg.ID),
		reg.FirstName,
		reg.LastName,
		reg.Email,
		reg.Phone,
		reg.Organization,
		reg.Profession,
		reg.Language,
		reg.SpecialRequirements,
		reg.Nationality,
		reg.CountryOfBirth,
		reg.IsForeigner,
		reg.NeedsVisa,
		reg.DocumentNumber,
		reg.DateOfIssue,
		reg.ExpirationDate,
		nullFileID(reg.PassportPhotoID),
		nullFileID(reg.PassportCopyID),
		documents,
		string(reg.Status),
		string(reg.PaymentStatus),
		reg.AssignedTariffID,
		reg.Price,
		string(reg.BadgeStatus),
		reg.BadgeGenerated,
		reg.BadgeURL,
		reg.BadgeRetryCount,
		reg.QRValidated,
		reg.LastValidationAt,
		reg.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update registration: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, regID id.RegistrationID) error {
	query := `DELETE FROM registrations WHERE tenant_id = $1 AND id = $2`
	res, err := txcontext.Resolve(ctx, s.db).ExecContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(regID))
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, args ...any) (*models.Registration, error) {
	rows, err := txcontext.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get registration: %w", err)
		}
		return nil, sentinel.ErrNotFound
	}
	reg, err := scanRegistration(rows)
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return reg, nil
}

func scanRegistration(rows *sql.Rows) (*models.Registration, error) {
	var (
		reg             models.Registration
		userID          uuid.NullUUID
		attendeeID      uuid.NullUUID
		dateOfIssue     sql.NullTime
		expirationDate  sql.NullTime
		passportPhotoID uuid.NullUUID
		passportCopyID  uuid.NullUUID
		documents       []byte
		qrCodeFileID    uuid.NullUUID
		lastValidation  sql.NullTime
	)
	err := rows.Scan(
		(*uuid.UUID)(&reg.ID),
		(*uuid.UUID)(&reg.TenantID),
		(*uuid.UUID)(&reg.EventID),
		&userID,
		&attendeeID,
		&reg.FirstName,
		&reg.LastName,
		&reg.Email,
		&reg.Phone,
		&reg.Organization,
		&reg.Profession,
		&reg.Language,
		&reg.SpecialRequirements,
		&reg.Nationality,
		&reg.CountryOfBirth,
		&reg.IsForeigner,
		&reg.NeedsVisa,
		&reg.DocumentNumber,
		&dateOfIssue,
		&expirationDate,
		&passportPhotoID,
		&passportCopyID,
		&documents,
		&reg.Status,
		&reg.PaymentStatus,
		&reg.AssignedTariffID,
		&reg.Price,
		&reg.BadgeStatus,
		&reg.BadgeGenerated,
		&reg.BadgeURL,
		&reg.BadgeRetryCount,
		&qrCodeFileID,
		&reg.QRValidated,
		&lastValidation,
		&reg.RegistrationDate,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		reg.UserID = id.UserID(userID.UUID)
	}
	if attendeeID.Valid {
		reg.AttendeeID = id.AttendeeID(attendeeID.UUID)
	}
	if dateOfIssue.Valid {
		t := dateOfIssue.Time
		reg.DateOfIssue = &t
	}
	if expirationDate.Valid {
		t := expirationDate.Time
		reg.ExpirationDate = &t
	}
	if passportPhotoID.Valid {
		fid := id.FileID(passportPhotoID.UUID)
		reg.PassportPhotoID = &fid
	}
	if passportCopyID.Valid {
		fid := id.FileID(passportCopyID.UUID)
		reg.PassportCopyID = &fid
	}
	if qrCodeFileID.Valid {
		reg.QRCodeFileID = id.FileID(qrCodeFileID.UUID)
	}
	if lastValidation.Valid {
		t := lastValidation.Time
		reg.LastValidationAt = &t
	}
	if len(documents) > 0 {
		if err := json.Unmarshal(documents, &reg.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	return &reg, nil
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}

func nullFileID(fid *id.FileID) uuid.NullUUID {
	if fid == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*fid), Valid: true}
}
