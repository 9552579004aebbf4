package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// DatabaseHealthChecker checks database health
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// HealthStatus represents the health status
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func runChecks(ctx context.Context, checkers map[string]HealthChecker) HealthStatus {
	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckStatus),
	}
	for name, checker := range checkers {
		if err := checker.Check(ctx); err != nil {
			health.Status = "unhealthy"
			health.Checks[name] = CheckStatus{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			health.Checks[name] = CheckStatus{
				Status: "healthy",
			}
		}
	}
	return health
}

// HealthHandler creates a health check handler
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := runChecks(ctx, checkers)

		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		writeJSON(w, statusCode, health)
	}
}

// ReadinessHandler reports ready once every dependency answers
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if health := runChecks(ctx, checkers); health.Status != "healthy" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":    "not_ready",
				"timestamp": health.Timestamp,
				"checks":    health.Checks,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ready",
			"timestamp": time.Now(),
		})
	}
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
