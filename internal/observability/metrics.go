package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memorylane_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "memorylane_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// DatabaseQueryLatency records query latency by operation and collection.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "memorylane_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "collection"})

	// MediaUploadsTotal counts media host uploads by backend and result.
	MediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memorylane_media_uploads_total",
		Help: "Total number of media uploads by backend and result",
	}, []string{"backend", "result"})

	// EventsPublishedTotal counts lifecycle events by type and result.
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memorylane_events_published_total",
		Help: "Total number of post lifecycle events by type and result",
	}, []string{"type", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, collection string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
	}
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// RecordUpload counts a media upload attempt.
func RecordUpload(backend string, err error) {
	MediaUploadsTotal.WithLabelValues(backend, resultLabel(err)).Inc()
}

// RecordEvent counts a publish attempt.
func RecordEvent(eventType string, err error) {
	EventsPublishedTotal.WithLabelValues(eventType, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
