package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if hasLabel(metric, label, value) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name && pair.GetValue() == value {
			return true
		}
	}
	return false
}

func TestOnboardingMetricsObserve(t *testing.T) {
	m := NewOnboardingMetrics(nil)
	m.ObserveValidationFailure("client")
	m.ObserveSubmission("success")
	m.ObserveForward("success", 0.5)
}

func TestOnboardingMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOnboardingMetrics(reg)
	m.ObserveValidationFailure("company")
	m.ObserveValidationFailure("company")
	m.ObserveSubmission("invalid")
	m.ObserveForward("upstream_error", 0.2)
	m.ObserveForward("not_configured", 0)

	if got := counterValue(t, reg, "onboarding_form_validation_failures_total", "step", "company"); got != 2 {
		t.Fatalf("expected 2 company failures, got %v", got)
	}
	if got := counterValue(t, reg, "onboarding_form_submissions_total", "outcome", "invalid"); got != 1 {
		t.Fatalf("expected 1 invalid submission, got %v", got)
	}
	if got := counterValue(t, reg, "onboarding_relay_forward_total", "outcome", "not_configured"); got != 1 {
		t.Fatalf("expected 1 not_configured forward, got %v", got)
	}
}

func TestOnboardingMetricsNilSafe(t *testing.T) {
	var m *OnboardingMetrics
	m.ObserveValidationFailure("settings")
	m.ObserveSubmission("success")
	m.ObserveForward("success", 0.1)
}
