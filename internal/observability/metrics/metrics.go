package metrics

import "github.com/prometheus/client_golang/prometheus"

// OnboardingMetrics exposes counters/histograms for the onboarding form flows.
type OnboardingMetrics struct {
	validationFailures *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	forwardTotal       *prometheus.CounterVec
	forwardLatency     *prometheus.HistogramVec
}

func NewOnboardingMetrics(reg prometheus.Registerer) *OnboardingMetrics {
	m := &OnboardingMetrics{
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboarding",
			Subsystem: "form",
			Name:      "validation_failures_total",
			Help:      "Failed step validations by step",
		}, []string{"step"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboarding",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Final submissions by outcome",
		}, []string{"outcome"}),
		forwardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboarding",
			Subsystem: "relay",
			Name:      "forward_total",
			Help:      "Webhook forwards by outcome",
		}, []string{"outcome"}),
		forwardLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onboarding",
			Subsystem: "relay",
			Name:      "forward_latency_seconds",
			Help:      "Latency of webhook forwards",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.validationFailures, m.submissions, m.forwardTotal, m.forwardLatency)
	return m
}

func (m *OnboardingMetrics) ObserveValidationFailure(step string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(step).Inc()
}

func (m *OnboardingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveForward records one webhook forward. Zero seconds skips the latency sample.
func (m *OnboardingMetrics) ObserveForward(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.forwardTotal.WithLabelValues(outcome).Inc()
	if seconds > 0 {
		m.forwardLatency.WithLabelValues(outcome).Observe(seconds)
	}
}
