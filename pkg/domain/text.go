package domain

import "github.com/google/uuid"

// The typed IDs are defined on uuid.UUID and therefore do not inherit its
// marshaling. These implementations keep IDs as canonical UUID strings on
// every JSON surface: HTTP bodies, bus messages, and logs.

func (id TenantID) MarshalText() ([]byte, error)       { return marshalID(uuid.UUID(id)) }
func (id UserID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id EventID) MarshalText() ([]byte, error)        { return marshalID(uuid.UUID(id)) }
func (id RegistrationID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id FileID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id AttendeeID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }

func (id *TenantID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	*id = TenantID(u)
	return err
}

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	*id = UserID(u)
	return err
}

func (id *EventID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	*id = EventID(u)
	return err
}

func (id *RegistrationID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	*id = RegistrationID(u)
	return err
}

func (id *FileID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	*id = FileID(u)
	return err
}

func (id *AttendeeID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	*id = AttendeeID(u)
	return err
}

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func unmarshalID(b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, nil
	}
	return uuid.ParseBytes(b)
}
