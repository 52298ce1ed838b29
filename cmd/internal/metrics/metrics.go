package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the directory's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bizdirectory",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizdirectory",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizdirectory",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	scoresRecomputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bizdirectory",
			Name:      "scores_recomputed_total",
			Help:      "Total number of company score recomputations.",
		},
	)

	eventsBroadcast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizdirectory",
			Subsystem: "websocket",
			Name:      "events_broadcast_total",
			Help:      "Total number of directory events pushed to websocket connections.",
		},
		[]string{"type"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		scoresRecomputed,
		eventsBroadcast,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RequestStarted() {
	httpInFlight.Inc()
}

// RequestFinished records a served request. Path must be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func RequestFinished(method, path string, status int, elapsed time.Duration) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func ScoreRecomputed() {
	scoresRecomputed.Inc()
}

func EventBroadcast(eventType string) {
	eventsBroadcast.WithLabelValues(eventType).Inc()
}
