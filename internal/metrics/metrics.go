package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sairaklin",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sairaklin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sairaklin",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sairaklin",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of orders created.",
		},
		[]string{"service_type"},
	)

	orderStatusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sairaklin",
			Subsystem: "orders",
			Name:      "status_updates_total",
			Help:      "Total number of order status changes, by new status.",
		},
		[]string{"status"},
	)

	reviewsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sairaklin",
			Subsystem: "reviews",
			Name:      "submitted_total",
			Help:      "Total number of reviews submitted, by rating.",
		},
		[]string{"rating"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ordersCreated,
		orderStatusUpdates,
		reviewsSubmitted,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted dipanggil middleware sebelum handler jalan; fungsi yang
// dikembalikan dipanggil setelah handler selesai.
func RequestStarted() func(method, path string, status int) {
	start := time.Now()
	httpInFlight.Inc()

	return func(method, path string, status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordOrderCreated(serviceType string) {
	ordersCreated.WithLabelValues(serviceType).Inc()
}

func RecordOrderStatusUpdate(status string) {
	orderStatusUpdates.WithLabelValues(status).Inc()
}

func RecordReviewSubmitted(rating int) {
	reviewsSubmitted.WithLabelValues(strconv.Itoa(rating)).Inc()
}
