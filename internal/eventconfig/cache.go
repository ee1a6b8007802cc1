package eventconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"waangu/internal/eventconfig/models"
	"waangu/internal/platform/redis"
	id "waangu/pkg/domain"
)

// CachedGateway is a read-through Redis cache in front of a Gateway. Event
// configuration changes rarely relative to registration traffic, so a short
// TTL takes most reads off the remote service. Cache failures degrade to the
// inner gateway, never to the caller.
type CachedGateway struct {
	inner  Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps gateway with a Redis read-through cache. A nil Redis client
// disables caching entirely.
func NewCached(gateway Gateway, redisClient *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGateway{
		inner:  gateway,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

func (g *CachedGateway) GetEventConfig(ctx context.Context, tenantID id.TenantID, eventID id.EventID) (*models.EventConfig, error) {
	key := fmt.Sprintf("eventconfig:config:%s:%s", tenantID, eventID)
	var cfg models.EventConfig
	if g.readCache(ctx, key, &cfg) {
		return &cfg, nil
	}
	fresh, err := g.inner.GetEventConfig(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	g.writeCache(ctx, key, fresh)
	return fresh, nil
}

func (g *CachedGateway) GetEventByID(ctx context.Context, tenantID id.TenantID, eventID id.EventID) (*models.EventDetails, error) {
	key := fmt.Sprintf("eventconfig:event:%s:%s", tenantID, eventID)
	var details models.EventDetails
	if g.readCache(ctx, key, &details) {
		return &details, nil
	}
	fresh, err := g.inner.GetEventByID(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	g.writeCache(ctx, key, fresh)
	return fresh, nil
}

func (g *CachedGateway) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}

func (g *CachedGateway) readCache(ctx context.Context, key string, out any) bool {
	if g.redis == nil {
		return false
	}
	raw, err := g.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		g.logger.Warn("corrupt cache entry, falling through", "key", key, "error", err)
		return false
	}
	return true
}

func (g *CachedGateway) writeCache(ctx context.Context, key string, v any) {
	if g.redis == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := g.redis.Set(ctx, key, raw, g.ttl).Err(); err != nil {
		g.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
