// File: internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe outcome label values.
const (
	OutcomeReachable   = "reachable"
	OutcomeUnreachable = "unreachable"
	OutcomeTimeout     = "timeout"
)

// Metrics bundles the engine's Prometheus instruments. A nil *Metrics is a
// valid no-op receiver so library callers that do not scrape can pass nil.
type Metrics struct {
	ProbesTotal       *prometheus.CounterVec
	ProbeDuration     prometheus.Histogram
	AuditsTotal       *prometheus.CounterVec
	IdentitiesScanned prometheus.Counter
	ScanItemFailures  prometheus.Counter
}

// New registers the instruments on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the instruments on the given registerer. Tests use a
// private registry to stay isolated.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProbesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentlens_probes_total",
			Help: "Total number of endpoint probes by outcome",
		}, []string{"outcome"}),
		ProbeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentlens_probe_duration_seconds",
			Help:    "Wall-clock duration of endpoint probes",
			Buckets: prometheus.DefBuckets,
		}),
		AuditsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentlens_audits_total",
			Help: "Total number of identity audits by resulting risk level",
		}, []string{"risk"}),
		IdentitiesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentlens_identities_scanned_total",
			Help: "Total number of identities successfully scanned in batches",
		}),
		ScanItemFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentlens_scan_item_failures_total",
			Help: "Total number of batch items skipped because resolution or audit failed",
		}),
	}
}

// ObserveProbe records one probe outcome and its duration.
func (m *Metrics) ObserveProbe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ProbesTotal.WithLabelValues(outcome).Inc()
	m.ProbeDuration.Observe(seconds)
}

// RecordAudit records one completed audit by risk level.
func (m *Metrics) RecordAudit(risk string) {
	if m == nil {
		return
	}
	m.AuditsTotal.WithLabelValues(risk).Inc()
}

// RecordScanned records identities counted into a scan report.
func (m *Metrics) RecordScanned(n int) {
	if m == nil {
		return
	}
	m.IdentitiesScanned.Add(float64(n))
}

// RecordScanItemFailure records one skipped batch item.
func (m *Metrics) RecordScanItemFailure() {
	if m == nil {
		return
	}
	m.ScanItemFailures.Inc()
}
