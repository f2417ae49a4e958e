package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/logos-engine/internal/services"
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	store        services.Store
	worldEnabled bool
	logger       *slog.Logger
}

// NewHealthHandler creates a health handler. store may be nil when no trust
// store is configured.
func NewHealthHandler(store services.Store, worldEnabled bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:        store,
		worldEnabled: worldEnabled,
		logger:       logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	switch {
	case h.store == nil:
		components["trust_store"] = "disabled"
	case h.store.Ping(ctx) != nil:
		h.logger.Warn("Trust store health check failed")
		components["trust_store"] = "unhealthy"
		overallStatus = "degraded"
	default:
		components["trust_store"] = "healthy"
	}

	if h.worldEnabled {
		components["world_engine"] = "configured"
	} else {
		components["world_engine"] = "disabled"
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "logos-engine",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, statusCode, response)
}
