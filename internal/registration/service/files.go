package service

import (
	"context"
	"errors"
	"time"

	filemodels "waangu/internal/filereference/models"
	id "waangu/pkg/domain"
	dErrors "waangu/pkg/domain-errors"
	"waangu/pkg/platform/sentinel"
	"waangu/pkg/requestcontext"
)

// fileDownloadTTL bounds presigned download links. Long enough for a browser
// redirect, short enough that a leaked link goes stale quickly.
const fileDownloadTTL = 15 * time.Minute

// FileDownload pairs a stored file's metadata with a short-lived download URL.
type FileDownload struct {
	File *filemodels.FileReference `json:"file"`
	URL  string                    `json:"url"`
}

// GetFile returns the tenant's file reference together with a presigned URL
// for the underlying object.
func (s *Service) GetFile(ctx context.Context, fileID id.FileID) (*FileDownload, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}

	ref, err := s.files.GetByID(ctx, tenantID, fileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load file reference")
	}
	url, err := s.artifacts.Presign(ctx, ref.Path, fileDownloadTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to presign file download")
	}
	return &FileDownload{File: ref, URL: url}, nil
}

// DeleteFile removes the tenant's file reference and its stored object. This
// is the cleanup path for artifacts that registration deletion leaves behind.
func (s *Service) DeleteFile(ctx context.Context, fileID id.FileID) error {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}

	ref, err := s.files.GetByID(ctx, tenantID, fileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load file reference")
	}
	if err := s.files.Delete(ctx, tenantID, fileID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete file reference")
	}
	// The row is gone; a dangling object is an acceptable cost.
	if err := s.artifacts.Delete(ctx, ref.Path); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.Warn("stored object removal failed", "key", ref.Path, "error", err)
	}
	return nil
}
