package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the upstream request collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crankfeed",
			Name:      "upstream_requests_total",
			Help:      "Upstream requests by upstream and status code",
		}, []string{"upstream", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crankfeed",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"upstream"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// observe is a no-op on a nil receiver so clients may run without metrics.
func (m *Metrics) observe(upstream, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(upstream, code).Inc()
	m.duration.WithLabelValues(upstream).Observe(elapsed.Seconds())
}
