// Package artifact abstracts binary object storage for QR images, badge PDFs,
// and invitation letters. Domain records hold keys and file-reference IDs,
// never bytes.
package artifact

import (
	"context"
	"fmt"
	"io"
	"time"

	id "waangu/pkg/domain"
)

// Store is the object-storage capability consumed by the registration service
// and the workers.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectKey builds the tenant-scoped key for a generic upload.
func ObjectKey(tenantID id.TenantID, fileID id.FileID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", tenantID, fileID, ext)
}

// BadgeKey builds the key for a registration's badge PDF.
func BadgeKey(tenantID id.TenantID, regID id.RegistrationID) string {
	return fmt.Sprintf("%s/badges/%s.pdf", tenantID, regID)
}

// LetterKey builds the key for a registration's invitation letter PDF.
func LetterKey(tenantID id.TenantID, regID id.RegistrationID) string {
	return fmt.Sprintf("invitation-letters/%s/%s.pdf", tenantID, regID)
}
