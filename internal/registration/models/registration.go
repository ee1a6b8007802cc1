package models

import (
	"time"

	id "waangu/pkg/domain"
)

// Status is the registration lifecycle state. It is set at creation (default
// PendingPayment) and mutated only through explicit update operations.
type Status string

const (
	StatusPendingPayment  Status = "PENDING_PAYMENT"
	StatusRegistered      Status = "REGISTERED"
	StatusConfirmed       Status = "CONFIRMED"
	StatusCancelled       Status = "CANCELLED"
	StatusCheckedIn       Status = "CHECKED_IN"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusWaitlisted      Status = "WAITLISTED"
	StatusAttended        Status = "ATTENDED"
	StatusNoShow          Status = "NO_SHOW"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusRegistered, StatusConfirmed, StatusCancelled,
		StatusCheckedIn, StatusPendingApproval, StatusWaitlisted, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

// PaymentStatus tracks payment settlement, derived from tariff evaluation
// unless the caller overrides it.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusFailed:
		return true
	}
	return false
}

// BadgeStatus is owned exclusively by the badge worker after the initial
// Pending default.
type BadgeStatus string

const (
	BadgeStatusPending   BadgeStatus = "PENDING"
	BadgeStatusGenerated BadgeStatus = "GENERATED"
	BadgeStatusFailed    BadgeStatus = "FAILED"
)

// DocumentLink ties a required document slot to the uploaded file that
// satisfies it.
type DocumentLink struct {
	RequiredDocumentID string    `json:"requiredDocumentId"`
	FileReferenceID    id.FileID `json:"fileReferenceId"`
}

// Registration is the central aggregate: one attendee's participation record
// for one event.
//
// Invariants:
//   - Exactly one registration per (TenantID, EventID, Email). Enforced by a
//     pre-write existence check inside the creation transaction plus a unique
//     constraint at the storage layer as a race backstop.
//   - QRCodeFileID is set during creation, inside the same transaction as the
//     registration row itself. A committed registration always has one.
//   - Documents must cover every required document the event configuration
//     names, checked at creation time.
//   - The attendee snapshot fields are copied from the submission and never
//     synced back from the attendee profile. A registration is immutable
//     evidence of what was submitted.
//
// Badge sub-state (BadgeStatus, BadgeGenerated, BadgeURL, BadgeRetryCount) is
// written only by the badge worker. QR sub-state (QRValidated,
// LastValidationAt) is written only by the scan validation path.
type Registration struct {
	ID         id.RegistrationID `json:"id"`
	TenantID   id.TenantID       `json:"tenantId"`
	EventID    id.EventID        `json:"eventId"`
	UserID     id.UserID         `json:"userId"`
	AttendeeID id.AttendeeID     `json:"attendeeId"`

	// Attendee snapshot.
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	Organization        string `json:"organization,omitempty"`
	Profession          string `json:"profession,omitempty"`
	Language            string `json:"language,omitempty"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`

	// Travel and visa fields.
	Nationality     string     `json:"nationality,omitempty"`
	CountryOfBirth  string     `json:"countryOfBirth,omitempty"`
	IsForeigner     bool       `json:"isForeigner"`
	NeedsVisa       bool       `json:"needsVisa"`
	DocumentNumber  string     `json:"documentNumber,omitempty"`
	DateOfIssue     *time.Time `json:"dateOfIssue,omitempty"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty"`
	PassportPhotoID *id.FileID `json:"passportPhotoId,omitempty"`
	PassportCopyID  *id.FileID `json:"passportCopyId,omitempty"`

	Documents []DocumentLink `json:"documents"`

	Status           Status        `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	AssignedTariffID string        `json:"assignedTariffId,omitempty"`
	Price            float64       `json:"price"`

	BadgeStatus     BadgeStatus `json:"badgeStatus"`
	BadgeGenerated  bool        `json:"badgeGenerated"`
	BadgeURL        string      `json:"badgeUrl,omitempty"`
	BadgeRetryCount int         `json:"badgeRetryCount"`

	QRCodeFileID     id.FileID  `json:"qrCodeFileId"`
	QRValidated      bool       `json:"qrValidated"`
	LastValidationAt *time.Time `json:"lastValidationAt,omitempty"`

	RegistrationDate time.Time `json:"registrationDate"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (r *Registration) FullName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// RequiresInvitationLetter reports whether the registrant needs a visa
// invitation letter generated alongside the badge.
func (r *Registration) RequiresInvitationLetter() bool {
	return r.IsForeigner && r.NeedsVisa
}

// MissingDocuments returns the required document IDs that no entry in
// Documents satisfies, in the order the requirements were given.
func (r *Registration) MissingDocuments(requiredIDs []string) []string {
	submitted := make(map[string]struct{}, len(r.Documents))
	for _, doc := range r.Documents {
		submitted[doc.RequiredDocumentID] = struct{}{}
	}
	var missing []string
	for _, required := range requiredIDs {
		if _, ok := submitted[required]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

// ApplyBadgeGenerated records a successful badge render. Idempotent: a
// re-delivered message overwrites the previous URL.
func (r *Registration) ApplyBadgeGenerated(badgeURL string, now time.Time) {
	r.BadgeStatus = BadgeStatusGenerated
	r.BadgeGenerated = true
	r.BadgeURL = badgeURL
	r.UpdatedAt = now
}

// ApplyBadgeFailed records a failed badge saga attempt.
func (r *Registration) ApplyBadgeFailed(now time.Time) {
	r.BadgeStatus = BadgeStatusFailed
	r.BadgeRetryCount++
	r.UpdatedAt = now
}

// ApplyValidation marks the QR code as scanned. Callers must check
// QRValidated first; a second scan is a distinct "already used" outcome.
func (r *Registration) ApplyValidation(now time.Time) {
	r.QRValidated = true
	r.LastValidationAt = &now
	r.UpdatedAt = now
}
