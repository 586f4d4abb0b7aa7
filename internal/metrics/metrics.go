// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the use cases and the audit recorder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of quote requests captured",
		},
		[]string{"coverage_type"},
	)

	contactMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_messages_received_total",
			Help: "Total number of contact messages received",
		},
	)

	analyticsEventsTracked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_events_tracked_total",
			Help: "Total number of analytics events stored",
		},
	)

	auditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total number of audit log rows that could not be written",
		},
	)

	eventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Total number of domain events that could not be published",
		},
		[]string{"event_type"},
	)

	rateLimitedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	recordsExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_expired_total",
			Help: "Total number of quotes and policies moved to expired by the sweeper",
		},
		[]string{"entity"},
	)
)

func RecordLeadCaptured(coverageType string) {
	leadsCaptured.WithLabelValues(coverageType).Inc()
}

func RecordContactMessage() {
	contactMessagesReceived.Inc()
}

func RecordAnalyticsEvent() {
	analyticsEventsTracked.Inc()
}

func RecordAuditWriteFailure() {
	auditWriteFailures.Inc()
}

func RecordEventPublishFailure(eventType string) {
	eventPublishFailures.WithLabelValues(eventType).Inc()
}

func RecordRateLimited() {
	rateLimitedRequests.Inc()
}

func RecordExpired(entity string, n int) {
	recordsExpired.WithLabelValues(entity).Add(float64(n))
}
