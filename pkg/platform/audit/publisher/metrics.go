package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Published       *prometheus.CounterVec
	Sampled         prometheus.Counter
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
	SinkFailures    prometheus.Counter
}

// NewMetrics registers the audit metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_audit_published_total",
			Help: "Total number of audit events persisted, by category",
		}, []string{"category"}),
		Sampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_audit_sampled_total",
			Help: "Total number of operations audit events dropped due to sampling",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_audit_dropped_total",
			Help: "Total number of audit events dropped because the async buffer was full",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_audit_persist_failures_total",
			Help: "Total number of audit event persistence failures",
		}),
		SinkFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_audit_sink_failures_total",
			Help: "Total number of audit events a sink failed to accept",
		}),
	}
}

func (m *Metrics) IncPublished(category string) {
	if m == nil {
		return
	}
	m.Published.WithLabelValues(category).Inc()
}

func (m *Metrics) IncSampled() {
	if m == nil {
		return
	}
	m.Sampled.Inc()
}

func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) IncSinkFailures() {
	if m == nil {
		return
	}
	m.SinkFailures.Inc()
}
