package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	roomsCreatedTotal     prometheus.Counter
	submissionsTotal      *prometheus.CounterVec
	judgeFallbacksTotal   prometheus.Counter
	eventsPublishedTotal  *prometheus.CounterVec
	eventSubscribersGauge prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arena_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		roomsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_rooms_created_total",
			Help: "Total number of competition rooms created.",
		})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_submissions_total",
			Help: "Total number of submissions by terminal status.",
		}, []string{"status"})

		judgeFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_judge_fallbacks_total",
			Help: "Number of submissions scored with the fallback outcome.",
		})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_events_published_total",
			Help: "Total number of room events published by kind.",
		}, []string{"kind"})

		eventSubscribersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_event_subscribers_active",
			Help: "Number of active room event subscribers.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			roomsCreatedTotal,
			submissionsTotal,
			judgeFallbacksTotal,
			eventsPublishedTotal,
			eventSubscribersGauge,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// RoomsCreated exposes the counter for created rooms.
func RoomsCreated() prometheus.Counter {
	RegisterMetrics()
	return roomsCreatedTotal
}

// Submissions exposes the counter for finalised submissions.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// JudgeFallbacks exposes the counter for fallback-scored submissions.
func JudgeFallbacks() prometheus.Counter {
	RegisterMetrics()
	return judgeFallbacksTotal
}

// EventsPublished exposes the counter for published room events.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}

// EventSubscribers exposes the gauge of active event subscribers.
func EventSubscribers() prometheus.Gauge {
	RegisterMetrics()
	return eventSubscribersGauge
}
