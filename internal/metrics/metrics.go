package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the verifier. A nil *Metrics is a
// valid no-op receiver so tests can run without touching the default registry.
type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec
	JobsFinished     *prometheus.CounterVec
	VerdictsTotal    *prometheus.CounterVec
	DeliveryAttempts prometheus.Counter
	DeliveryFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentsync_submissions_total",
			Help: "Verification submissions accepted, by source kind",
		}, []string{"source"}),
		JobsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentsync_jobs_finished_total",
			Help: "Jobs that reached a terminal state, by state",
		}, []string{"state"}),
		VerdictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentsync_verdicts_total",
			Help: "Verdicts produced, by status label",
		}, []string{"status"}),
		DeliveryAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentsync_delivery_attempts_total",
			Help: "Downstream delivery attempts, including retries",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentsync_delivery_failures_total",
			Help: "Delivery sequences that exhausted all attempts",
		}),
	}
}

// ObserveSubmission counts an accepted submission.
func (m *Metrics) ObserveSubmission(source string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(source).Inc()
}

// ObserveJobFinished counts a job reaching a terminal state.
func (m *Metrics) ObserveJobFinished(state string) {
	if m == nil {
		return
	}
	m.JobsFinished.WithLabelValues(state).Inc()
}

// ObserveVerdict counts a produced verdict.
func (m *Metrics) ObserveVerdict(status string) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(status).Inc()
}

// ObserveDelivery records a delivery sequence outcome.
func (m *Metrics) ObserveDelivery(attempts int, ok bool) {
	if m == nil {
		return
	}
	m.DeliveryAttempts.Add(float64(attempts))
	if !ok {
		m.DeliveryFailures.Inc()
	}
}
