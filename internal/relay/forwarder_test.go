package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/tuition-onboarding/internal/observability/metrics"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

func TestForwarderPostsBodyVerbatim(t *testing.T) {
	body := []byte(`{"body":{"firstName":"Anna","calculatedTotalValue":315}}`)
	var got []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := NewForwarder(server.URL, WithLogger(logging.Discard()), WithMetrics(metrics.NewOnboardingMetrics(prometheus.NewRegistry())))
	require.NoError(t, f.Forward(context.Background(), body))
	assert.Equal(t, body, got)
}

func TestForwarderAcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	f := NewForwarder(server.URL, WithLogger(logging.Discard()))
	assert.NoError(t, f.Forward(context.Background(), []byte(`{}`)))
}

func TestForwarderUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("workflow inactive"))
	}))
	defer server.Close()

	f := NewForwarder(server.URL, WithLogger(logging.Discard()))
	err := f.Forward(context.Background(), []byte(`{}`))

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, "workflow inactive", upstream.Body)
}

func TestForwarderNotConfigured(t *testing.T) {
	f := NewForwarder("", WithLogger(logging.Discard()))
	assert.False(t, f.Configured())
	assert.ErrorIs(t, f.Forward(context.Background(), []byte(`{}`)), ErrNotConfigured)
}

func TestForwarderEmptyBody(t *testing.T) {
	f := NewForwarder("http://localhost:1", WithLogger(logging.Discard()))
	assert.ErrorIs(t, f.Forward(context.Background(), nil), ErrEmptyBody)
}

func TestForwarderTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := NewForwarder(url, WithLogger(logging.Discard()))
	err := f.Forward(context.Background(), []byte(`{}`))
	require.Error(t, err)
	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
}

func TestForwarderCustomHTTPClient(t *testing.T) {
	client := &http.Client{}
	f := NewForwarder("http://example.test", WithHTTPClient(client))
	assert.Same(t, client, f.httpClient)
	assert.Zero(t, NewForwarder("http://example.test").httpClient.Timeout)
}
