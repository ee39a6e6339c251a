package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "realty"

const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheSet  = "set"
	CacheDel  = "del"
)

const (
	ServiceGoogleCalendar = "google_calendar"
	ServiceSMTP           = "smtp"
	ServiceS3             = "s3"
	ServiceKafka          = "kafka"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "operation", "result"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)
	QueryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "db_query_duration_seconds",
			Help:    "Database statement duration seconds.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"entity", "operation", "result"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"event"},
	)
	Reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "reservations_total", Help: "Reservation lifecycle transitions."},
		[]string{"status"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notifications_total", Help: "Notifications by kind and outcome."},
		[]string{"kind", "result"},
	)
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// Registry returns the process wide registry with every collector attached.
func Registry() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			HTTPRequests, HTTPLatency,
			ExternalRequests, ExternalLatency,
			QueryLatency, CacheEvents, Reservations, Notifications,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})

	return registry
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, operation string, err error, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, operation, Result(err)).Inc()
	ExternalLatency.WithLabelValues(service, operation).Observe(dur.Seconds())
}

func ObserveQuery(entity, operation string, err error, dur time.Duration) {
	QueryLatency.WithLabelValues(entity, operation, Result(err)).Observe(dur.Seconds())
}

func ObserveCache(event string) {
	CacheEvents.WithLabelValues(event).Inc()
}

func ObserveReservation(status string) {
	Reservations.WithLabelValues(status).Inc()
}

func ObserveNotification(kind string, err error) {
	Notifications.WithLabelValues(kind, Result(err)).Inc()
}

func Result(err error) string {
	if err == nil {
		return "ok"
	}

	return "error"
}
