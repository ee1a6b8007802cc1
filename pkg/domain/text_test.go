package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// IDs must serialize as canonical UUID strings on every JSON surface, not as
// the underlying byte array.
func TestIDJSONRoundTrip(t *testing.T) {
	regID := NewRegistrationID()

	raw, err := json.Marshal(regID)
	require.NoError(t, err)
	assert.Equal(t, `"`+regID.String()+`"`, string(raw))

	var decoded RegistrationID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, regID, decoded)
}

func TestIDJSONInvalid(t *testing.T) {
	var decoded EventID
	err := json.Unmarshal([]byte(`"not-a-uuid"`), &decoded)
	assert.Error(t, err)
}
