// Package httptransport is the thin REST adapter over the registration
// service. It parses requests, delegates, and translates domain errors; no
// business logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waangu/internal/registration/service"
	"waangu/pkg/platform/httputil"
	"waangu/pkg/platform/middleware/requesttime"
)

// HealthCheck is a named probe run by the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handler struct {
	service *service.Service
	logger  *slog.Logger
	checks  []HealthCheck
}

type Option func(h *Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func WithHealthCheck(name string, check func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.checks = append(h.checks, HealthCheck{Name: name, Check: check})
	}
}

func NewHandler(svc *service.Service, opts ...Option) *Handler {
	h := &Handler{service: svc, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter wires all endpoints. Registration and scan routes require the
// tenant context headers; health and metrics do not.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(TenantContext)

		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", h.handleCreateRegistration)
			r.Get("/", h.handleListRegistrations)
			r.Route("/{registrationID}", func(r chi.Router) {
				r.Get("/", h.handleGetRegistration)
				r.Patch("/", h.handleUpdateRegistration)
				r.Delete("/", h.handleDeleteRegistration)
			})
		})

		r.Route("/files/{fileID}", func(r chi.Router) {
			r.Get("/", h.handleGetFile)
			r.Delete("/", h.handleDeleteFile)
		})

		r.Post("/scan/validate", h.handleValidateScan)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.checks {
		if err := check.Check(r.Context()); err != nil {
			h.logger.Warn("health check failed", "check", check.Name, "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"failing": check.Name,
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
