package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no webhook URL is set. Only an operator can fix it.
	ErrNotConfigured = errors.New("relay: webhook url not configured")
	// ErrSubmissionInFlight is returned while the same draft is already being forwarded.
	ErrSubmissionInFlight = errors.New("relay: submission already in flight")
	// ErrEmptyBody is returned when there is nothing to forward.
	ErrEmptyBody = errors.New("relay: body required")
)

// UpstreamError reports a non-2xx answer from the automation webhook.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("relay: webhook failed with status %d", e.StatusCode)
}
