package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/generation"
)

type HealthResponse struct {
	Status     string                      `json:"status"`
	Timestamp  time.Time                   `json:"timestamp"`
	Service    string                      `json:"service"`
	Version    string                      `json:"version"`
	DB         string                      `json:"db,omitempty"`
	Cache      string                      `json:"cache,omitempty"`
	Generation *generation.MetricsSnapshot `json:"generation,omitempty"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function such as a Redis ping to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	cache       Pinger
	metrics     *generation.Metrics
}

type HealthOption func(*HealthHandler)

func WithDB(db Pinger) HealthOption {
	return func(h *HealthHandler) { h.db = db }
}

func WithCache(cache Pinger) HealthOption {
	return func(h *HealthHandler) { h.cache = cache }
}

func WithGenerationMetrics(m *generation.Metrics) HealthOption {
	return func(h *HealthHandler) { h.metrics = m }
}

func NewHealthHandler(serviceName, version string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		serviceName: serviceName,
		version:     version,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.PingContext(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        ping(c.Request.Context(), h.db),
		Cache:     ping(c.Request.Context(), h.cache),
	}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.Generation = &snap
	}
	if resp.DB == "down" {
		resp.Status = "degraded"
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
