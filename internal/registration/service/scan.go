package service

import (
	"context"
	"errors"
	"time"

	id "waangu/pkg/domain"
	dErrors "waangu/pkg/domain-errors"
	"waangu/pkg/platform/sentinel"
	"waangu/pkg/requestcontext"
)

// ScanStatus is the outcome of a badge scan. AlreadyUsed is a distinct
// outcome, not an error: the scan was well-formed, the badge was just
// validated before.
type ScanStatus string

const (
	ScanStatusValid       ScanStatus = "VALID"
	ScanStatusAlreadyUsed ScanStatus = "ALREADY_USED"
)

type ScanResult struct {
	Status         ScanStatus        `json:"status"`
	RegistrationID id.RegistrationID `json:"registrationId"`
	FullName       string            `json:"fullName"`
	ValidatedAt    *time.Time        `json:"validatedAt,omitempty"`
}

// ValidateScanToken verifies a scanned badge token and marks the registration
// validated on first use.
func (s *Service) ValidateScanToken(ctx context.Context, token string) (*ScanResult, error) {
	regID, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.ValidateRegistration(ctx, regID)
}

// ValidateRegistration marks the registration's QR as used. A second scan
// reports AlreadyUsed with the original validation time.
func (s *Service) ValidateRegistration(ctx context.Context, regID id.RegistrationID) (*ScanResult, error) {
	reg, err := s.registrations.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	if reg.QRValidated {
		return &ScanResult{
			Status:         ScanStatusAlreadyUsed,
			RegistrationID: reg.ID,
			FullName:       reg.FullName(),
			ValidatedAt:    reg.LastValidationAt,
		}, nil
	}

	// Guard against two scanners racing the same badge. Redis being down
	// degrades to the persisted flag alone.
	if s.replayGuard != nil {
		ok, err := s.replayGuard.SetNX(ctx, "scan:validated:"+regID.String(), "1", scanGuardTTL).Result()
		if err != nil {
			s.logger.Warn("scan replay guard unavailable", "error", err)
		} else if !ok {
			return &ScanResult{
				Status:         ScanStatusAlreadyUsed,
				RegistrationID: reg.ID,
				FullName:       reg.FullName(),
				ValidatedAt:    reg.LastValidationAt,
			}, nil
		}
	}

	now := requestcontext.Now(ctx)
	reg.ApplyValidation(now)
	if err := s.registrations.Update(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record validation")
	}

	s.logger.Info("badge validated", "registration_id", reg.ID, "tenant_id", reg.TenantID)
	return &ScanResult{
		Status:         ScanStatusValid,
		RegistrationID: reg.ID,
		FullName:       reg.FullName(),
		ValidatedAt:    &now,
	}, nil
}
