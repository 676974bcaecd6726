package prometheus

import (
	"strconv"
	"sync"
	"time"

	"catalog-console/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Remote catalog service metrics
	RemoteCallsTotal   *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec

	// Product mutation metrics
	ProductOperationsCounter *prometheus.CounterVec

	// Operator notifications
	NoticesCounter *prometheus.CounterVec

	// Preview resources currently held by form drafts
	LivePreviewsGauge prometheus.Gauge
)

// InitMetrics initializes Prometheus metrics with configuration.
// Only the first call registers collectors.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		register(prometheus.DefaultRegisterer, config.Metrics.Prefix)
	})
}

func register(reg prometheus.Registerer, prefix string) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RemoteCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_calls_total",
			Help: "Total number of calls to the remote catalog service",
		},
		[]string{"operation", "status"},
	)

	RemoteCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_catalog_call_duration_seconds",
			Help:    "Duration of calls to the remote catalog service in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ProductOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product create/update/delete operations",
		},
		[]string{"operation", "outcome"},
	)

	NoticesCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notices_total",
			Help: "Total number of notices shown to the operator",
		},
		[]string{"severity"},
	)

	LivePreviewsGauge = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_live_previews",
			Help: "Number of image previews currently held by the form draft",
		},
	)
}

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	s := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, s).Inc()
	HttpRequestDuration.WithLabelValues(method, path, s).Observe(duration.Seconds())
}

// RecordRemoteCall records a call to the catalog service. status is the
// HTTP status code, or 0 when no response was received.
func RecordRemoteCall(operation string, status int, duration time.Duration) {
	if RemoteCallsTotal == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RemoteCallsTotal.WithLabelValues(operation, label).Inc()
	RemoteCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation, outcome string) {
	if ProductOperationsCounter == nil {
		return
	}
	ProductOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordNotice increments the counter for operator notices
func RecordNotice(severity string) {
	if NoticesCounter == nil {
		return
	}
	NoticesCounter.WithLabelValues(severity).Inc()
}

// SetLivePreviews updates the live preview gauge
func SetLivePreviews(n int) {
	if LivePreviewsGauge == nil {
		return
	}
	LivePreviewsGauge.Set(float64(n))
}
