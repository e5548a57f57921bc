package handlers

import (
	"net/http"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping() error
}

// PingerFunc adapts a plain function to the Pinger interface
type PingerFunc func() error

func (f PingerFunc) Ping() error { return f() }

// HealthHandler reports service liveness and dependency health
type HealthHandler struct {
	version string
	deps    map[string]Pinger
}

// NewHealthHandler creates a new health handler. deps maps a dependency
// name to its health check; nil values are skipped.
func NewHealthHandler(version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version: version,
		deps:    deps,
	}
}

// Health returns the service health
// @Summary Health check
// @Description Report service liveness and the health of backing dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Failure 503 {object} map[string]interface{} "One or more dependencies are down"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := map[string]string{}

	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "up"
		}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}

	respondWithJSON(w, status, map[string]interface{}{
		"status":  state,
		"version": h.version,
		"checks":  checks,
	})
}
