// Package relay forwards page payloads to the externally configured
// automation webhooks. It is a pure single-hop passthrough: one inbound
// call produces exactly one outbound call, with no retries and no
// validation beyond JSON well-formedness.
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bbl-digital/sales-enablement-portal/internal/observability/metrics"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// ErrNotConfigured is returned when a target has no webhook URL set.
// Configuration absence is always surfaced, never silently defaulted.
var ErrNotConfigured = errors.New("relay: webhook URL not configured")

// UpstreamError carries a non-2xx upstream response so callers can relay
// the upstream body as the error payload.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("relay: upstream returned status %d", e.Status)
}

// Target names one configured automation webhook.
type Target struct {
	// Name identifies the surface (feedback, product-chat, product-recs,
	// qualify-leads) in logs and metrics.
	Name string
	// URL is the externally configured webhook endpoint.
	URL string
	// FailureMessage is the generic error shown when the call itself fails.
	FailureMessage string
}

// Forwarder performs the outbound webhook calls.
type Forwarder struct {
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.RelayMetrics
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Forwarder) {
		f.httpClient = client
	}
}

// WithMetrics records relay counters and latency.
func WithMetrics(m *metrics.RelayMetrics) Option {
	return func(f *Forwarder) {
		f.metrics = m
	}
}

// NewForwarder creates a Forwarder. The default client carries no timeout:
// the automation flows behind these webhooks can run for minutes, and the
// contract is to wait, not to sever.
func NewForwarder(logger *logging.Logger, opts ...Option) *Forwarder {
	if logger == nil {
		logger = logging.Default()
	}
	f := &Forwarder{
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithTimeout returns a copy of the forwarder whose client enforces the
// given per-call timeout. Zero leaves the client unbounded.
func (f *Forwarder) WithTimeout(d time.Duration) *Forwarder {
	if d <= 0 {
		return f
	}
	clone := *f
	client := *f.httpClient
	client.Timeout = d
	clone.httpClient = &client
	return &clone
}

// Forward relays body verbatim to the target webhook and returns the
// upstream response body as text. A non-2xx upstream status yields an
// *UpstreamError holding the upstream body.
func (f *Forwarder) Forward(ctx context.Context, target Target, body []byte) (string, error) {
	if target.URL == "" {
		return "", ErrNotConfigured
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("relay: create request for %s: %w", target.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.metrics.ObserveRelay(target.Name, "transport_error", time.Since(start).Seconds())
		return "", fmt.Errorf("relay: call %s: %w", target.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		f.metrics.ObserveRelay(target.Name, "transport_error", time.Since(start).Seconds())
		return "", fmt.Errorf("relay: read %s response: %w", target.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.metrics.ObserveRelay(target.Name, "upstream_error", time.Since(start).Seconds())
		f.logger.Warn("upstream webhook returned error",
			"target", target.Name,
			"status", resp.StatusCode,
		)
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	f.metrics.ObserveRelay(target.Name, "ok", time.Since(start).Seconds())
	f.logger.Info("upstream webhook relayed",
		"target", target.Name,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return string(respBody), nil
}
