package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/refresh/2fa
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions_total",
			Help: "Total number of active sessions",
		},
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache lookups by outcome",
		},
		[]string{"cache", "result"}, // hit/miss
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type and reason",
		},
		[]string{"type", "reason"}, // db, auth, cache, gamification...
	)

	// Progress Engine Metrics
	InteractionsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "practice_interactions_scored_total",
			Help: "Total number of scored practice interactions applied to progress",
		},
	)

	MilestonesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestones_awarded_total",
			Help: "Total number of milestone awards by milestone id",
		},
		[]string{"milestone"},
	)

	MalformedHistoryEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_malformed_history_entries_total",
			Help: "Total number of unparseable dates/timestamps skipped during progress computations",
		},
	)

	ProgressWriteConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_write_conflicts_total",
			Help: "Total number of optimistic-concurrency conflicts on progress writes",
		},
	)

	Registrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Total number of registered users",
		},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackError increments the error counter by type and reason
func TrackError(errorType, reason string) {
	ErrorsTotal.WithLabelValues(errorType, reason).Inc()
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackCacheOperation records a cache lookup outcome
func TrackCacheOperation(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheOperations.WithLabelValues(cache, result).Inc()
}

// TrackInteractionScored increments the scored interaction counter
func TrackInteractionScored() {
	InteractionsScored.Inc()
}

// TrackMilestoneAwarded increments the award counter for a milestone
func TrackMilestoneAwarded(milestoneID string) {
	MilestonesAwarded.WithLabelValues(milestoneID).Inc()
}

// TrackMalformedHistory counts skipped unparseable history entries
func TrackMalformedHistory(count int) {
	if count > 0 {
		MalformedHistoryEntries.Add(float64(count))
	}
}

// TrackProgressConflict counts optimistic-concurrency write conflicts
func TrackProgressConflict() {
	ProgressWriteConflicts.Inc()
}

// TrackRegistration increments the registration counter
func TrackRegistration() {
	Registrations.Inc()
}

// UpdateActiveSessions sets the current number of active sessions
func UpdateActiveSessions(count float64) {
	ActiveSessions.Set(count)
}
