// Package domain defines the typed identifiers shared across the
// registration backend. Distinct types keep tenant, user, event, and
// registration IDs from being swapped at call sites; the compiler does the
// checking.
package domain

import (
	"github.com/google/uuid"

	dErrors "waangu/pkg/domain-errors"
)

type (
	// TenantID scopes every record in the system.
	TenantID uuid.UUID
	// UserID identifies the authenticated submitter of a registration.
	UserID uuid.UUID
	// EventID identifies an event owned by the remote event service.
	EventID uuid.UUID
	// RegistrationID identifies one attendee's registration for one event.
	RegistrationID uuid.UUID
	// FileID identifies a stored artifact reference.
	FileID uuid.UUID
	// AttendeeID identifies an attendee profile row.
	AttendeeID uuid.UUID
)

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be nil")
	}
	return u, nil
}

func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID("tenant", s)
	return TenantID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user", s)
	return UserID(u), err
}

func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID("event", s)
	return EventID(u), err
}

func ParseRegistrationID(s string) (RegistrationID, error) {
	u, err := parseUUID("registration", s)
	return RegistrationID(u), err
}

func ParseFileID(s string) (FileID, error) {
	u, err := parseUUID("file", s)
	return FileID(u), err
}

func (id TenantID) String() string       { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id EventID) String() string        { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }
func (id FileID) String() string         { return uuid.UUID(id).String() }
func (id AttendeeID) String() string     { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id FileID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id AttendeeID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// NewRegistrationID allocates a registration ID up front so it can be
// embedded in the QR payload and artifact keys before the row exists.
func NewRegistrationID() RegistrationID { return RegistrationID(uuid.New()) }

func NewFileID() FileID         { return FileID(uuid.New()) }
func NewAttendeeID() AttendeeID { return AttendeeID(uuid.New()) }
