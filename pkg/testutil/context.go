package testutil

import (
	"net/http"
	"time"

	id "waangu/pkg/domain"
	"waangu/pkg/requestcontext"
)

// WithTenant adds a tenant ID to the request context, simulating the tenant
// middleware. Invalid IDs are silently ignored so tests can exercise the
// missing-tenant path.
func WithTenant(req *http.Request, tenantID string) *http.Request {
	parsed, err := id.ParseTenantID(tenantID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithTenantID(req.Context(), parsed))
}

// WithActor adds tenant and user IDs to the request context, the typical
// state for an authenticated tenant-scoped request.
func WithActor(req *http.Request, tenantID, userID string) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseTenantID(tenantID); err == nil {
		ctx = requestcontext.WithTenantID(ctx, parsed)
	}
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	return req.WithContext(ctx)
}

// WithFrozenTime pins the request clock so time-dependent logic (tariff
// windows, token expiry) is deterministic in tests.
func WithFrozenTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
