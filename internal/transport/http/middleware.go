package httptransport

import (
	"net/http"

	id "waangu/pkg/domain"
	dErrors "waangu/pkg/domain-errors"
	"waangu/pkg/platform/httputil"
	"waangu/pkg/requestcontext"
)

const (
	headerTenantID = "x-tenant-id"
	headerUserID   = "x-user-id"
)

// TenantContext extracts the tenant and user identity from request headers
// and stores them in the context. How the headers are produced is not this
// service's concern; it treats them as an opaque authenticated context.
// Requests without a valid tenant are rejected before any handler runs.
func TenantContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := id.ParseTenantID(r.Header.Get(headerTenantID))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "missing or invalid x-tenant-id header"))
			return
		}
		ctx := requestcontext.WithTenantID(r.Context(), tenantID)

		if raw := r.Header.Get(headerUserID); raw != "" {
			userID, err := id.ParseUserID(raw)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid x-user-id header"))
				return
			}
			ctx = requestcontext.WithUserID(ctx, userID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
