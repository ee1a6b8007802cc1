// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// The tenant middleware sets tenant and user IDs; services read them without
// depending on net/http. Now(ctx) lets tests pin the clock, which matters for
// tariff-window selection.
//
// Usage in services (read values):
//
//	tenantID := requestcontext.TenantID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithTenantID(ctx, tenantID)
//	ctx = requestcontext.WithUserID(ctx, userID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "waangu/pkg/domain"
)

type tenantIDKey struct{}
type userIDKey struct{}
type requestIDKey struct{}
type timeKey struct{}

func WithTenantID(ctx context.Context, tenantID id.TenantID) context.Context {
	return context.WithValue(ctx, tenantIDKey{}, tenantID)
}

// TenantID returns the request tenant, or the nil ID when none was set.
func TenantID(ctx context.Context) id.TenantID {
	v, _ := ctx.Value(tenantIDKey{}).(id.TenantID)
	return v
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserID(ctx context.Context) id.UserID {
	v, _ := ctx.Value(userIDKey{}).(id.UserID)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithTime pins the clock for the rest of the request. Tests use this to make
// tariff-window evaluation deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

// Now returns the pinned request time when present, else the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
