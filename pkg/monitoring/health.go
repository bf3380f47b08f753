package monitoring

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker reports the health of a single dependency
type HealthChecker interface {
	Health() error
}

// HealthHandler returns a health probe handler that checks the given
// dependencies by name
func HealthHandler(service string, checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		statusCode := http.StatusOK
		results := make(map[string]string, len(checks))

		for name, checker := range checks {
			if err := checker.Health(); err != nil {
				results[name] = err.Error()
				status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
			} else {
				results[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"service":   service,
			"timestamp": time.Now().UTC(),
			"checks":    results,
		})
	}
}
