// Package metrics exposes Prometheus counters for certificate issuance,
// bulk imports, verifications and HTTP traffic. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Verification outcomes.
const (
	VerificationFound    = "found"
	VerificationNotFound = "not_found"
	VerificationError    = "error"
)

// Batch outcomes.
const (
	BatchProcessed = "processed"
	BatchRejected  = "rejected"
	BatchAborted   = "aborted"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	certificatesIssued prometheus.Counter
	importRows         *prometheus.CounterVec
	importBatches      *prometheus.CounterVec
	verifications      *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers the certifier metrics plus the Go runtime and process
// collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers only the certifier metrics on reg.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,
		certificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "certifier_certificates_issued_total",
			Help: "Total number of certificate identities committed",
		}),
		importRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certifier_import_rows_total",
			Help: "Bulk import rows by result",
		}, []string{"result"}),
		importBatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certifier_import_batches_total",
			Help: "Bulk import batches by outcome",
		}, []string{"outcome"}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certifier_verifications_total",
			Help: "Public certificate lookups by outcome",
		}, []string{"outcome"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certifier_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) CertificateIssued() {
	if m == nil {
		return
	}
	m.certificatesIssued.Inc()
}

func (m *Metrics) ImportRow(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.importRows.WithLabelValues(result).Inc()
}

func (m *Metrics) ImportBatch(outcome string) {
	if m == nil {
		return
	}
	m.importBatches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
