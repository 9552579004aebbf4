package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal       uint64
	RequestsInProgress  uint64
	RequestsSuccess     uint64
	RequestsFailed      uint64
	GenerationsTotal    uint64
	GenerationsRunning  uint64
	GenerationsFailed   uint64
	GenerationsRejected uint64
	AnalysesDeleted     uint64
	StartTime           time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementInProgress increments in-progress request counter
func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

// DecrementInProgress decrements in-progress request counter
func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

// IncrementSuccess increments successful request counter
func IncrementSuccess() {
	atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
}

// IncrementFailed increments failed request counter
func IncrementFailed() {
	atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
}

// IncrementGenerations increments total generation counter
func IncrementGenerations() {
	atomic.AddUint64(&globalMetrics.GenerationsTotal, 1)
}

// IncrementGenerationsRunning increments in-flight generation counter
func IncrementGenerationsRunning() {
	atomic.AddUint64(&globalMetrics.GenerationsRunning, 1)
}

// DecrementGenerationsRunning decrements in-flight generation counter
func DecrementGenerationsRunning() {
	atomic.AddUint64(&globalMetrics.GenerationsRunning, ^uint64(0))
}

// IncrementGenerationsFailed counts analysis or store failures
func IncrementGenerationsFailed() {
	atomic.AddUint64(&globalMetrics.GenerationsFailed, 1)
}

// IncrementGenerationsRejected counts uploads that failed validation
func IncrementGenerationsRejected() {
	atomic.AddUint64(&globalMetrics.GenerationsRejected, 1)
}

// IncrementDeleted counts removed history items
func IncrementDeleted() {
	atomic.AddUint64(&globalMetrics.AnalysesDeleted, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"generations_total":    atomic.LoadUint64(&globalMetrics.GenerationsTotal),
		"generations_running":  atomic.LoadUint64(&globalMetrics.GenerationsRunning),
		"generations_failed":   atomic.LoadUint64(&globalMetrics.GenerationsFailed),
		"generations_rejected": atomic.LoadUint64(&globalMetrics.GenerationsRejected),
		"analyses_deleted":     atomic.LoadUint64(&globalMetrics.AnalysesDeleted),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		// Wrap response writer to capture status
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Track success/failure based on status code
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			IncrementSuccess()
		} else {
			IncrementFailed()
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetMetrics())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
