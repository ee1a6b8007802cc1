package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "waangu/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRegistrationID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRegistrationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseTenantID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseEventID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, EventID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	tenantID := TenantID(uuid.New())
	eventID := EventID(uuid.New())
	regID := NewRegistrationID()

	// Converting through uuid.UUID is explicit and intentional
	assert.NotEqual(t, uuid.UUID(tenantID), uuid.UUID(eventID))
	assert.False(t, regID.IsNil())
	assert.NotEmpty(t, regID.String())
}

// FuzzParseRegistrationID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParseRegistrationID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE registrations;--")
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseRegistrationID(input)
		if err == nil {
			roundTrip, err2 := ParseRegistrationID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}
	})
}

// FuzzParseAllIDs ensures all ID types share the same validation behavior.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errTenant := ParseTenantID(input)
		_, errUser := ParseUserID(input)
		_, errEvent := ParseEventID(input)
		_, errReg := ParseRegistrationID(input)
		_, errFile := ParseFileID(input)

		accepted := errTenant == nil
		for _, err := range []error{errUser, errEvent, errReg, errFile} {
			if (err == nil) != accepted {
				t.Error("inconsistent parsing across ID types")
			}
		}
	})
}
