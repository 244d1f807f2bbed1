// Package relay forwards JSON documents verbatim to the contract automation
// webhook and guards against duplicate in-flight submissions.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/tuition-onboarding/internal/observability/metrics"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

const maxErrorBody = 8192

// Forwarder posts bodies to the configured webhook.
type Forwarder struct {
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.OnboardingMetrics
	tracer     trace.Tracer
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Forwarder) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(f *Forwarder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics records forward outcomes.
func WithMetrics(m *metrics.OnboardingMetrics) Option {
	return func(f *Forwarder) {
		f.metrics = m
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(f *Forwarder) {
		if tracer != nil {
			f.tracer = tracer
		}
	}
}

// NewForwarder creates a forwarder for webhookURL. An empty URL is allowed;
// every Forward call then fails with ErrNotConfigured. The default client has
// no timeout of its own, so the transport defaults apply.
func NewForwarder(webhookURL string, opts ...Option) *Forwarder {
	f := &Forwarder{
		webhookURL: webhookURL,
		httpClient: &http.Client{},
		logger:     logging.Default(),
		tracer:     otel.Tracer("onboarding.internal.relay"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Configured reports whether a webhook URL is set.
func (f *Forwarder) Configured() bool {
	return f.webhookURL != ""
}

// Forward posts body unchanged with Content-Type application/json.
// Any 2xx answer is success; the response body is discarded.
func (f *Forwarder) Forward(ctx context.Context, body []byte) error {
	if !f.Configured() {
		f.logger.Error("N8N_WEBHOOK_URL is not set")
		f.metrics.ObserveForward("not_configured", 0)
		return ErrNotConfigured
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}

	ctx, span := f.tracer.Start(ctx, "relay.forward")
	defer span.End()
	span.SetAttributes(attribute.Int("relay.body_bytes", len(body)))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		f.metrics.ObserveForward("request_error", time.Since(start).Seconds())
		return fmt.Errorf("relay: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		f.metrics.ObserveForward("transport_error", time.Since(start).Seconds())
		f.logger.Error("webhook request failed", "error", err)
		return fmt.Errorf("relay: post webhook: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upstream := &UpstreamError{StatusCode: resp.StatusCode, Body: string(errorBody)}
		span.RecordError(upstream)
		span.SetStatus(codes.Error, "upstream rejected")
		f.metrics.ObserveForward("upstream_error", time.Since(start).Seconds())
		f.logger.Error("webhook error", "status", resp.StatusCode, "body", upstream.Body)
		return upstream
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	f.metrics.ObserveForward("success", time.Since(start).Seconds())
	f.logger.Info("webhook accepted submission", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
