package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "waangu/pkg/domain"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Grace Hopper", (&Registration{FirstName: "Grace", LastName: "Hopper"}).FullName())
	assert.Equal(t, "Grace", (&Registration{FirstName: "Grace"}).FullName())
	assert.Equal(t, "Hopper", (&Registration{LastName: "Hopper"}).FullName())
}

func TestRequiresInvitationLetter(t *testing.T) {
	assert.True(t, (&Registration{IsForeigner: true, NeedsVisa: true}).RequiresInvitationLetter())
	assert.False(t, (&Registration{IsForeigner: true}).RequiresInvitationLetter())
	assert.False(t, (&Registration{NeedsVisa: true}).RequiresInvitationLetter())
}

func TestMissingDocuments(t *testing.T) {
	reg := &Registration{Documents: []DocumentLink{
		{RequiredDocumentID: "doc-a", FileReferenceID: id.NewFileID()},
	}}

	assert.Empty(t, reg.MissingDocuments([]string{"doc-a"}))
	assert.Equal(t, []string{"doc-b", "doc-c"}, reg.MissingDocuments([]string{"doc-a", "doc-b", "doc-c"}))
	assert.Empty(t, reg.MissingDocuments(nil))
}

func TestApplyBadgeTransitions(t *testing.T) {
	now := time.Now()
	reg := &Registration{BadgeStatus: BadgeStatusPending}

	reg.ApplyBadgeFailed(now)
	assert.Equal(t, BadgeStatusFailed, reg.BadgeStatus)
	assert.Equal(t, 1, reg.BadgeRetryCount)

	reg.ApplyBadgeGenerated("https://cdn.example/badge.pdf", now)
	assert.Equal(t, BadgeStatusGenerated, reg.BadgeStatus)
	assert.True(t, reg.BadgeGenerated)
	assert.Equal(t, "https://cdn.example/badge.pdf", reg.BadgeURL)
}

func TestApplyValidation(t *testing.T) {
	now := time.Now()
	reg := &Registration{}

	reg.ApplyValidation(now)
	assert.True(t, reg.QRValidated)
	assert.Equal(t, now, *reg.LastValidationAt)
}

func TestListFilterMatches(t *testing.T) {
	eventID := id.EventID{}
	status := StatusConfirmed
	reg := &Registration{EventID: eventID, Status: StatusConfirmed, PaymentStatus: PaymentStatusPaid}

	assert.True(t, ListFilter{}.Matches(reg))
	assert.True(t, ListFilter{Status: &status}.Matches(reg))

	other := StatusCancelled
	assert.False(t, ListFilter{Status: &other}.Matches(reg))
}
