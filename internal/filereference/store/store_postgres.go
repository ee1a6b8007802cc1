package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"waangu/internal/filereference/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
	txcontext "waangu/pkg/platform/tx"
)

// PostgresStore persists file references in PostgreSQL. Create resolves the
// context transaction so the QR artifact row commits atomically with its
// registration.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed file-reference store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, ref *models.FileReference) error {
	if ref == nil {
		return fmt.Errorf("file reference is required")
	}
	query := `
		INSERT INTO file_references (id, tenant_id, path, file_type, label, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := txcontext.Resolve(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(ref.ID),
		uuid.UUID(ref.TenantID),
		ref.Path,
		ref.FileType,
		ref.Label,
		nullUUID(uuid.UUID(ref.UploadedBy)),
		ref.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create file reference: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, tenantID id.TenantID, fileID id.FileID) (*models.FileReference, error) {
	query := `
		SELECT id, tenant_id, path, file_type, label, uploaded_by, created_at
		FROM file_references
		WHERE tenant_id = $1 AND id = $2
	`
	var (
		ref        models.FileReference
		uploadedBy uuid.NullUUID
	)
	err := txcontext.Resolve(ctx, s.db).QueryRowContext(ctx, query,
		uuid.UUID(tenantID), uuid.UUID(fileID),
	).Scan(
		(*uuid.UUID)(&ref.ID),
		(*uuid.UUID)(&ref.TenantID),
		&ref.Path,
		&ref.FileType,
		&ref.Label,
		&uploadedBy,
		&ref.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get file reference: %w", err)
	}
	if uploadedBy.Valid {
		ref.UploadedBy = id.UserID(uploadedBy.UUID)
	}
	return &ref, nil
}

func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, fileID id.FileID) error {
	query := `DELETE FROM file_references WHERE tenant_id = $1 AND id = $2`
	res, err := txcontext.Resolve(ctx, s.db).ExecContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(fileID))
	if err != nil {
		return fmt.Errorf("delete file reference: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
