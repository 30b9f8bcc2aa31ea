package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "imoveis"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	Searches         *prometheus.CounterVec
	SearchFailures   prometheus.Counter
	ContactsCreated  prometheus.Counter
	ListingMutations *prometheus.CounterVec
	ImagesUploaded   prometheus.Counter
	ImageRejections  *prometheus.CounterVec
	NotifyFailures   *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_searches_total",
			Help:      "Listing searches by data source.",
		}, []string{"source"}),
		SearchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_search_failures_total",
			Help:      "Listing searches that degraded to an empty result.",
		}),
		ContactsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_messages_created_total",
			Help:      "Contact messages stored.",
		}),
		ListingMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_mutations_total",
			Help:      "Admin listing writes by operation.",
		}, []string{"op"}),
		ImagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_uploaded_total",
			Help:      "Watermarked images stored.",
		}),
		ImageRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_rejections_total",
			Help:      "Uploads rejected before processing, by reason.",
		}, []string{"reason"}),
		NotifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Failed contact notifications by channel.",
		}, []string{"channel"}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPLatency,
		m.Searches,
		m.SearchFailures,
		m.ContactsCreated,
		m.ListingMutations,
		m.ImagesUploaded,
		m.ImageRejections,
		m.NotifyFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// The helpers below are safe on a nil *Metrics so services can run without
// instrumentation in tests.

func (m *Metrics) SearchServed(source string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(source).Inc()
}

func (m *Metrics) SearchFailed() {
	if m == nil {
		return
	}
	m.SearchFailures.Inc()
}

func (m *Metrics) ContactCreated() {
	if m == nil {
		return
	}
	m.ContactsCreated.Inc()
}

func (m *Metrics) ListingMutated(op string) {
	if m == nil {
		return
	}
	m.ListingMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) ImageStored() {
	if m == nil {
		return
	}
	m.ImagesUploaded.Inc()
}

func (m *Metrics) ImageRejected(reason string) {
	if m == nil {
		return
	}
	m.ImageRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) NotifyFailed(channel string) {
	if m == nil {
		return
	}
	m.NotifyFailures.WithLabelValues(channel).Inc()
}
