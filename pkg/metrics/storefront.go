package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogClientMetrics records calls against the remote catalog API.
type CatalogClientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCatalogClientMetrics registers the catalog client metrics on the provided registerer.
func NewCatalogClientMetrics(reg prometheus.Registerer) *CatalogClientMetrics {
	if reg == nil {
		return &CatalogClientMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Requests issued to the remote catalog API.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of catalog API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(requests, duration)
	return &CatalogClientMetrics{
		requests: requests,
		duration: duration,
	}
}

// ObserveRequest records one catalog call with its outcome and duration.
func (c *CatalogClientMetrics) ObserveRequest(operation, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	if c.requests != nil {
		c.requests.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
	}
	if c.duration != nil {
		c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
	}
}

// CartIntentMetrics counts cart mutations by intent.
type CartIntentMetrics struct {
	intents *prometheus.CounterVec
}

// NewCartIntentMetrics registers the cart intent counter on the provided registerer.
func NewCartIntentMetrics(reg prometheus.Registerer) *CartIntentMetrics {
	if reg == nil {
		return &CartIntentMetrics{}
	}
	intents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_intents_total",
		Help: "Cart intents applied, by intent name.",
	}, []string{"intent"})
	reg.MustRegister(intents)
	return &CartIntentMetrics{intents: intents}
}

// Inc increments the counter for the named intent.
func (c *CartIntentMetrics) Inc(intent string) {
	if c == nil || c.intents == nil {
		return
	}
	c.intents.WithLabelValues(normalizeLabel(intent)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
