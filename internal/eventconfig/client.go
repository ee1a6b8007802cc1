// Package eventconfig is the client for the remote event-configuration
// service: event metadata, tariff rules, and required-document lists, keyed
// by (tenant, event).
package eventconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"waangu/internal/eventconfig/models"
	"waangu/internal/platform/config"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
)

// Gateway is the read-only configuration capability consumed by the
// registration service and the workers.
type Gateway interface {
	GetEventConfig(ctx context.Context, tenantID id.TenantID, eventID id.EventID) (*models.EventConfig, error)
	GetEventByID(ctx context.Context, tenantID id.TenantID, eventID id.EventID) (*models.EventDetails, error)
	Ping(ctx context.Context) error
}

// Client talks JSON over HTTP to the configuration service. Every call
// carries the client's timeout as its deadline.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOption func(*Client)

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient constructs a configuration-gateway client. The client must be
// fully constructed before the registration service that depends on it.
func NewClient(cfg config.GatewayConfig, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetEventConfig(ctx context.Context, tenantID id.TenantID, eventID id.EventID) (*models.EventConfig, error) {
	var cfg models.EventConfig
	path := fmt.Sprintf("/tenants/%s/events/%s/config", url.PathEscape(tenantID.String()), url.PathEscape(eventID.String()))
	if err := c.getJSON(ctx, path, tenantID, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) GetEventByID(ctx context.Context, tenantID id.TenantID, eventID id.EventID) (*models.EventDetails, error) {
	var details models.EventDetails
	path := fmt.Sprintf("/tenants/%s/events/%s", url.PathEscape(tenantID.String()), url.PathEscape(eventID.String()))
	if err := c.getJSON(ctx, path, tenantID, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Ping verifies the configuration service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping configuration service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping configuration service: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, tenantID id.TenantID, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-tenant-id", tenantID.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call configuration service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return sentinel.ErrNotFound
	default:
		c.logger.Error("configuration service returned unexpected status",
			"path", path, "status", resp.StatusCode)
		return fmt.Errorf("configuration service: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode configuration response: %w", err)
	}
	return nil
}
