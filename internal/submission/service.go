package submission

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/tuition-onboarding/internal/observability/metrics"
	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
	"github.com/wolfman30/tuition-onboarding/internal/relay"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

// Sender delivers an encoded envelope. Satisfied by *relay.Forwarder.
type Sender interface {
	Forward(ctx context.Context, body []byte) error
}

// Deduper runs fn at most once at a time per key and hands its result to
// every caller waiting on that key. Satisfied by *relay.Guard.
type Deduper interface {
	Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error)
}

// Service assembles drafts and forwards them. It implements onboarding.Submitter.
type Service struct {
	assembler *Assembler
	sender    Sender
	guard     Deduper
	metrics   *metrics.OnboardingMetrics
	logger    *logging.Logger
	tracer    trace.Tracer
}

var _ onboarding.Submitter = (*Service)(nil)

// NewService wires the submission pipeline. guard and m may be nil.
func NewService(assembler *Assembler, sender Sender, guard Deduper, m *metrics.OnboardingMetrics, logger *logging.Logger) *Service {
	if assembler == nil {
		assembler = NewAssembler(DefaultCurrency)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		assembler: assembler,
		sender:    sender,
		guard:     guard,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("onboarding.internal.submission"),
	}
}

// Submit forwards d to the automation webhook. Validation is the caller's job.
func (s *Service) Submit(ctx context.Context, d *onboarding.Draft) (*onboarding.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit")
	defer span.End()

	envelope, err := s.assembler.Assemble(d)
	if err != nil {
		s.metrics.ObserveSubmission("assemble_error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "assemble failed")
		return nil, err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		s.metrics.ObserveSubmission("assemble_error")
		return nil, fmt.Errorf("submission: encode payload: %w", err)
	}

	key := envelope.Body.DraftID
	if key == "" {
		key = contentKey(body)
	}
	span.SetAttributes(
		attribute.String("submission.key", key),
		attribute.Int64("submission.total", envelope.Body.CalculatedTotalValue),
	)

	forwarded := &onboarding.Receipt{DraftID: key, Total: envelope.Body.CalculatedTotalValue}
	send := func(ctx context.Context) (any, error) {
		if s.sender == nil {
			return nil, relay.ErrNotConfigured
		}
		if err := s.sender.Forward(ctx, body); err != nil {
			return nil, err
		}
		return forwarded, nil
	}
	var result any
	if s.guard != nil {
		result, err = s.guard.Do(ctx, key, send)
	} else {
		result, err = send(ctx)
	}
	if err != nil {
		outcome := outcomeFor(err)
		s.metrics.ObserveSubmission(outcome)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		s.logger.Error("submission failed", "draft_id", key, "outcome", outcome, "error", err)
		return nil, err
	}

	// A caller that joined an in-flight submission gets the receipt of the
	// payload that was actually forwarded, not of its own draft.
	shared, ok := result.(*onboarding.Receipt)
	if !ok || shared == nil {
		shared = forwarded
	}
	receipt := *shared
	s.metrics.ObserveSubmission("success")
	s.logger.Info("submission forwarded",
		"draft_id", receipt.DraftID,
		"client_type", envelope.Body.ClientType,
		"total", receipt.Total,
		"joined", shared != forwarded,
	)
	return &receipt, nil
}

func outcomeFor(err error) string {
	var upstream *relay.UpstreamError
	switch {
	case errors.Is(err, relay.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, relay.ErrSubmissionInFlight):
		return "in_flight"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "transport_error"
	}
}

func contentKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
