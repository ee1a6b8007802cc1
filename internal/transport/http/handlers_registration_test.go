package httptransport_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"waangu/internal/artifact"
	attendeestore "waangu/internal/attendee/store"
	"waangu/internal/badge"
	ecmocks "waangu/internal/eventconfig/mocks"
	ecmodels "waangu/internal/eventconfig/models"
	filestore "waangu/internal/filereference/store"
	"waangu/internal/registration/models"
	"waangu/internal/registration/service"
	regstore "waangu/internal/registration/store/registration"
	httptransport "waangu/internal/transport/http"
	id "waangu/pkg/domain"
	"waangu/pkg/testutil"
)

type noopPublisher struct{}

func (noopPublisher) Produce(context.Context, string, any) error { return nil }

type fixture struct {
	router   http.Handler
	gateway  *ecmocks.MockGateway
	signer   *badge.TokenSigner
	tenantID id.TenantID
	userID   id.UserID
	eventID  id.EventID
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		gateway:  ecmocks.NewMockGateway(ctrl),
		signer:   badge.NewTokenSigner("test-secret"),
		tenantID: id.TenantID(uuid.New()),
		userID:   id.UserID(uuid.New()),
		eventID:  id.EventID(uuid.New()),
	}
	svc := service.New(
		regstore.NewMemory(), attendeestore.NewMemory(), filestore.NewMemory(),
		artifact.NewMemory(), f.gateway, noopPublisher{}, f.signer,
		service.NewMemoryStoreTx(),
	)
	f.router = httptransport.NewRouter(httptransport.NewHandler(svc))
	return f
}

func (f *fixture) authed(req *http.Request) *http.Request {
	req.Header.Set("x-tenant-id", f.tenantID.String())
	req.Header.Set("x-user-id", f.userID.String())
	return req
}

func (f *fixture) expectEventLookups() {
	f.gateway.EXPECT().
		GetEventConfig(gomock.Any(), f.tenantID, f.eventID).
		Return(&ecmodels.EventConfig{}, nil)
	f.gateway.EXPECT().
		GetEventByID(gomock.Any(), f.tenantID, f.eventID).
		Return(&ecmodels.EventDetails{ID: f.eventID, Name: "GopherCon 2025"}, nil)
}

func (f *fixture) createRegistration(t *testing.T) *models.Registration {
	t.Helper()
	f.expectEventLookups()

	req := f.authed(testutil.NewJSONRequest(t, http.MethodPost, "/registrations", map[string]any{
		"eventId":   f.eventID.String(),
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "grace@example.com",
	}))
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := testutil.UnmarshalResponse[struct {
		Registration models.Registration `json:"registration"`
	}](t, rr)
	return &resp.Registration
}

func TestCreateRegistration(t *testing.T) {
	f := newFixture(t)
	reg := f.createRegistration(t)

	assert.Equal(t, models.StatusPendingPayment, reg.Status)
	assert.Equal(t, models.PaymentStatusPending, reg.PaymentStatus)
	assert.False(t, reg.QRCodeFileID.IsNil())
	assert.Equal(t, f.tenantID, reg.TenantID)
	assert.Equal(t, f.userID, reg.UserID)
}

func TestCreateRegistration_MissingTenantHeader(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/registrations", map[string]any{
		"eventId": f.eventID.String(),
		"email":   "grace@example.com",
	})
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRegistration_Conflict(t *testing.T) {
	f := newFixture(t)
	f.createRegistration(t)
	f.expectEventLookups()

	req := f.authed(testutil.NewJSONRequest(t, http.MethodPost, "/registrations", map[string]any{
		"eventId": f.eventID.String(),
		"email":   "grace@example.com",
	}))
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	errResp := testutil.UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "conflict", errResp["error"])
}

func TestCreateRegistration_InvalidBody(t *testing.T) {
	f := newFixture(t)
	req := f.authed(testutil.NewRequestWithBody(t, http.MethodPost, "/registrations", "{not json"))
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetRegistration(t *testing.T) {
	f := newFixture(t)
	reg := f.createRegistration(t)

	req := f.authed(testutil.NewRequest(t, http.MethodGet, "/registrations/"+reg.ID.String()))
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	got := testutil.UnmarshalResponse[models.Registration](t, rr)
	assert.Equal(t, reg.ID, got.ID)
}

func TestGetRegistration_WrongTenant(t *testing.T) {
	f := newFixture(t)
	reg := f.createRegistration(t)

	req := testutil.NewRequest(t, http.MethodGet, "/registrations/"+reg.ID.String())
	req.Header.Set("x-tenant-id", uuid.NewString())
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListRegistrations(t *testing.T) {
	f := newFixture(t)
	f.createRegistration(t)

	req := f.authed(testutil.NewRequest(t, http.MethodGet, "/registrations?status=PENDING_PAYMENT"))
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := testutil.UnmarshalResponse[struct {
		Registrations []models.Registration `json:"registrations"`
	}](t, rr)
	assert.Len(t, resp.Registrations, 1)
}

func TestListRegistrations_InvalidStatusFilter(t *testing.T) {
	f := newFixture(t)
	req := f.authed(testutil.NewRequest(t, http.MethodGet, "/registrations?status=BOGUS"))
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateRegistration(t *testing.T) {
	f := newFixture(t)
	reg := f.createRegistration(t)

	req := f.authed(testutil.NewJSONRequest(t, http.MethodPatch, "/registrations/"+reg.ID.String(), map[string]any{
		"paymentStatus": "PAID",
	}))
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	got := testutil.UnmarshalResponse[models.Registration](t, rr)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
}

func TestDeleteRegistration(t *testing.T) {
	f := newFixture(t)
	reg := f.createRegistration(t)

	req := f.authed(testutil.NewRequest(t, http.MethodDelete, "/registrations/"+reg.ID.String()))
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	req = f.authed(testutil.NewRequest(t, http.MethodGet, "/registrations/"+reg.ID.String()))
	rr = testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestValidateScan(t *testing.T) {
	f := newFixture(t)
	reg := f.createRegistration(t)

	token, err := f.signer.Sign(reg.ID, time.Now())
	require.NoError(t, err)

	req := f.authed(testutil.NewJSONRequest(t, http.MethodPost, "/scan/validate", map[string]string{"token": token}))
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	result := testutil.UnmarshalResponse[service.ScanResult](t, rr)
	assert.Equal(t, service.ScanStatusValid, result.Status)

	// Scanning the same badge again is reported, not rejected.
	req = f.authed(testutil.NewJSONRequest(t, http.MethodPost, "/scan/validate", map[string]string{"token": token}))
	rr = testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	result = testutil.UnmarshalResponse[service.ScanResult](t, rr)
	assert.Equal(t, service.ScanStatusAlreadyUsed, result.Status)
}

func TestValidateScan_BadToken(t *testing.T) {
	f := newFixture(t)
	req := f.authed(testutil.NewJSONRequest(t, http.MethodPost, "/scan/validate", map[string]string{"token": "garbage"}))
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusOK, rr.Code)
}
