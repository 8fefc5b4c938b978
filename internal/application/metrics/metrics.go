package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts wizard progress and external call outcomes.
type Metrics struct {
	StepAdvances         *prometheus.CounterVec
	StepRefusals         *prometheus.CounterVec
	SectionRefusals      *prometheus.CounterVec
	AllocationRowsAdded  *prometheus.CounterVec
	AllocationRowsRemove *prometheus.CounterVec
	OmittedAllocations   prometheus.Counter
	ApplicationsStarted  prometheus.Counter
	ExternalCallDuration *prometheus.HistogramVec
	ExternalCallFailures *prometheus.CounterVec
}

// New registers the wizard metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StepAdvances: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_step_advances_total",
			Help: "Wizard steps left forward, by step",
		}, []string{"step"}),
		StepRefusals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_step_refusals_total",
			Help: "Refused step navigations, by step",
		}, []string{"step"}),
		SectionRefusals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_section_refusals_total",
			Help: "Refused section expansions, by section",
		}, []string{"section"}),
		AllocationRowsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_allocation_rows_added_total",
			Help: "Allocation rows added, by bucket kind",
		}, []string{"kind"}),
		AllocationRowsRemove: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_allocation_rows_removed_total",
			Help: "Allocation rows removed, by bucket kind",
		}, []string{"kind"}),
		OmittedAllocations: f.NewCounter(prometheus.CounterOpts{
			Name: "intake_allocations_omitted_total",
			Help: "Beneficiary allocations left out of a save for lack of a role guid",
		}),
		ApplicationsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "intake_applications_started_total",
			Help: "Applications started",
		}),
		ExternalCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intake_external_call_duration_seconds",
			Help:    "Latency of calls to the carrier endpoints",
			Buckets: prometheus.DefBuckets,
		}, []string{"call"}),
		ExternalCallFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_external_call_failures_total",
			Help: "Failed calls to the carrier endpoints",
		}, []string{"call"}),
	}
}

func (m *Metrics) IncStepAdvance(step string) {
	if m == nil {
		return
	}
	m.StepAdvances.WithLabelValues(step).Inc()
}

func (m *Metrics) IncStepRefusal(step string) {
	if m == nil {
		return
	}
	m.StepRefusals.WithLabelValues(step).Inc()
}

func (m *Metrics) IncSectionRefusal(section string) {
	if m == nil {
		return
	}
	m.SectionRefusals.WithLabelValues(section).Inc()
}

func (m *Metrics) IncRowAdded(kind string) {
	if m == nil {
		return
	}
	m.AllocationRowsAdded.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncRowRemoved(kind string) {
	if m == nil {
		return
	}
	m.AllocationRowsRemove.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddOmitted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OmittedAllocations.Add(float64(n))
}

func (m *Metrics) IncApplicationsStarted() {
	if m == nil {
		return
	}
	m.ApplicationsStarted.Inc()
}

// ObserveExternalCall records one carrier call.
func (m *Metrics) ObserveExternalCall(call string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ExternalCallDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
	if err != nil {
		m.ExternalCallFailures.WithLabelValues(call).Inc()
	}
}
