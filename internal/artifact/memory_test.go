package artifact

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Put(ctx, "t1/badges/r1.pdf", strings.NewReader("pdf bytes"), 9, "application/pdf"))

	rc, err := s.Get(ctx, "t1/badges/r1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "pdf bytes", string(data))

	url, err := s.Presign(ctx, "t1/badges/r1.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "memory://t1/badges/r1.pdf", url)

	require.NoError(t, s.Delete(ctx, "t1/badges/r1.pdf"))
	_, err = s.Get(ctx, "t1/badges/r1.pdf")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = s.Presign(ctx, "t1/badges/r1.pdf", time.Hour)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestKeys(t *testing.T) {
	tenantID := id.TenantID(uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	regID := id.RegistrationID(uuid.MustParse("22222222-2222-2222-2222-222222222222"))
	fileID := id.FileID(uuid.MustParse("33333333-3333-3333-3333-333333333333"))

	assert.Equal(t,
		"11111111-1111-1111-1111-111111111111/badges/22222222-2222-2222-2222-222222222222.pdf",
		BadgeKey(tenantID, regID))
	assert.Equal(t,
		"invitation-letters/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222.pdf",
		LetterKey(tenantID, regID))
	assert.Equal(t,
		"11111111-1111-1111-1111-111111111111/33333333-3333-3333-3333-333333333333.png",
		ObjectKey(tenantID, fileID, "png"))
}
