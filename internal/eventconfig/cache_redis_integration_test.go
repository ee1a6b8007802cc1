//go:build integration

package eventconfig_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"waangu/internal/eventconfig"
	"waangu/internal/platform/config"
	platformredis "waangu/internal/platform/redis"
	id "waangu/pkg/domain"
	"waangu/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CacheSuite) TestReadThrough() {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"requiredDocuments": [{"id": "doc-1", "name": "Passport"}], "tariffRules": []}`))
	}))
	defer server.Close()

	client := eventconfig.NewClient(config.GatewayConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	cached := eventconfig.NewCached(client, &platformredis.Client{Client: s.redis.Client}, time.Minute, nil)

	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())
	eventID := id.EventID(uuid.New())

	first, err := cached.GetEventConfig(ctx, tenantID, eventID)
	s.Require().NoError(err)
	second, err := cached.GetEventConfig(ctx, tenantID, eventID)
	s.Require().NoError(err)

	s.Equal(int32(1), calls.Load(), "second read must be served from cache")
	s.Equal(first.RequiredDocumentIDs(), second.RequiredDocumentIDs())
}

func (s *CacheSuite) TestDistinctKeysPerEvent() {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"requiredDocuments": [], "tariffRules": []}`))
	}))
	defer server.Close()

	client := eventconfig.NewClient(config.GatewayConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	cached := eventconfig.NewCached(client, &platformredis.Client{Client: s.redis.Client}, time.Minute, nil)

	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())

	_, err := cached.GetEventConfig(ctx, tenantID, id.EventID(uuid.New()))
	s.Require().NoError(err)
	_, err = cached.GetEventConfig(ctx, tenantID, id.EventID(uuid.New()))
	s.Require().NoError(err)

	s.Equal(int32(2), calls.Load(), "different events must not share cache entries")
}
