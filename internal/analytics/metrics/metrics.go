package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics provides observability for the analytics module.
// Tracks computation latency, export volume and audit write failures.
type Metrics struct {
	ComputeDuration  prometheus.Histogram
	RenderDuration   *prometheus.HistogramVec
	ExportsTotal     *prometheus.CounterVec
	AuditFailures    prometheus.Counter
	ClientNameMisses prometheus.Counter
}

// New registers the analytics metrics with reg. Passing nil uses the
// default registerer; tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ComputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "brokerage_analytics_compute_duration_seconds",
			Help:    "Duration of analytics snapshot computations",
			Buckets: durationBuckets,
		}),
		RenderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brokerage_analytics_render_duration_seconds",
			Help:    "Duration of export rendering by format",
			Buckets: durationBuckets,
		}, []string{"format"}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brokerage_analytics_exports_total",
			Help: "Total number of analytics exports returned to brokers",
		}, []string{"format"}),
		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "brokerage_analytics_export_audit_failures_total",
			Help: "Export audit records that could not be persisted",
		}),
		ClientNameMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "brokerage_analytics_client_name_misses_total",
			Help: "Computations short-circuited because the client name matched nobody",
		}),
	}
}

// ObserveCompute records the duration of a snapshot computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCompute(start time.Time) {
	m.ComputeDuration.Observe(time.Since(start).Seconds())
}

// ObserveRender records how long a renderer took for format.
func (m *Metrics) ObserveRender(format string, start time.Time) {
	m.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
}

// IncrementExports records a completed export.
func (m *Metrics) IncrementExports(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// IncrementAuditFailures records a swallowed audit write error.
func (m *Metrics) IncrementAuditFailures() {
	m.AuditFailures.Inc()
}

// IncrementClientNameMisses records a client-name short-circuit.
func (m *Metrics) IncrementClientNameMisses() {
	m.ClientNameMisses.Inc()
}
