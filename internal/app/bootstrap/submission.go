package bootstrap

import (
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/tuition-onboarding/internal/config"
	"github.com/wolfman30/tuition-onboarding/internal/observability/metrics"
	"github.com/wolfman30/tuition-onboarding/internal/relay"
	"github.com/wolfman30/tuition-onboarding/internal/submission"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

// Submission groups the pieces that move a finished draft to the webhook.
type Submission struct {
	Forwarder *relay.Forwarder
	Guard     *relay.Guard
	Service   *submission.Service
}

// BuildSubmission wires assembler, guard and forwarder. A missing webhook URL
// is logged but not fatal: every submit then answers with a configuration error.
func BuildSubmission(cfg *appconfig.Config, redisClient *redis.Client, m *metrics.OnboardingMetrics, logger *logging.Logger) *Submission {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.WebhookConfigured() {
		logger.Warn("N8N_WEBHOOK_URL is not set; submissions will fail until it is configured")
	}

	forwarder := relay.NewForwarder(cfg.N8NWebhookURL,
		relay.WithLogger(logger.With("component", "relay")),
		relay.WithMetrics(m),
	)
	guard := relay.NewGuard(redisClient, cfg.SubmitLockTTL)
	service := submission.NewService(
		submission.NewAssembler(cfg.Currency),
		forwarder,
		guard,
		m,
		logger.With("component", "submission"),
	)
	return &Submission{Forwarder: forwarder, Guard: guard, Service: service}
}
