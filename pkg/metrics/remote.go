package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RemoteCallMetrics records calls made to the commerce platform.
type RemoteCallMetrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
}

// NewRemoteCallMetrics registers the remote call metrics on the provided registerer.
func NewRemoteCallMetrics(reg prometheus.Registerer) *RemoteCallMetrics {
	if reg == nil {
		return &RemoteCallMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopify_request_duration_seconds",
		Help:    "Duration of Shopify Admin API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopify_requests_total",
		Help: "Shopify Admin API calls by outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, calls)
	return &RemoteCallMetrics{duration: duration, calls: calls}
}

// Observe records one call. A nil err counts as success.
func (m *RemoteCallMetrics) Observe(operation string, elapsed time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.calls.WithLabelValues(op, outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
