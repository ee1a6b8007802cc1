package models

import (
	"time"

	id "waangu/pkg/domain"
)

// FileReference describes one stored object (QR image, badge PDF, uploaded
// passport scan). Registrations hold the ID, never the bytes.
type FileReference struct {
	ID         id.FileID   `json:"id"`
	TenantID   id.TenantID `json:"tenantId"`
	Path       string      `json:"path"`
	FileType   string      `json:"fileType,omitempty"`
	Label      string      `json:"label,omitempty"`
	UploadedBy id.UserID   `json:"uploadedBy,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}
