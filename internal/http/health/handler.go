package health

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/MitroiBogdan/NEXAR/internal/platform/logging"
)

const readinessTimeout = 3 * time.Second

// Response is the payload for the liveness endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler is a plain HTTP handler for the liveness check endpoint.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Status: "healthy"})
}

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DependencyStatus is the readiness of one dependency.
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadinessResponse is the payload for the readiness endpoint.
type ReadinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Readiness pings every dependency and answers 503 when any of them fails.
// With no dependencies the service is always ready.
func Readiness(deps map[string]Pinger) http.HandlerFunc {
	names := slices.Sorted(maps.Keys(deps))
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := ReadinessResponse{Status: "ready", Dependencies: make(map[string]DependencyStatus, len(deps))}
		code := http.StatusOK
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				logging.LogWarn(ctx, "readiness check failed", zap.String("dependency", name), zap.Error(err))
				resp.Dependencies[name] = DependencyStatus{Status: "unhealthy", Error: err.Error()}
				resp.Status = "not_ready"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Dependencies[name] = DependencyStatus{Status: "ok"}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
