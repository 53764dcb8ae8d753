package vpnapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"vpnctl-bot/internal/config"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vpnapi_requests_total",
		Help: "Requests issued against the VPN management API by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// Client is the transport layer: it speaks the remote API's envelope contract
// and converts every outcome into the typed error taxonomy. It holds no
// credential state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL(), "/"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		logger:     logger,
	}
}

// RequestOption mutates the outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithBearer injects an Authorization header with the given credential.
func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Do performs one call and returns the envelope's data payload.
// Failures map onto the taxonomy: *TransportError for network-level faults,
// *RemoteError for non-2xx statuses, *ApplicationError for success=false
// inside a 2xx envelope. No retries happen at this layer.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Cause: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for _, opt := range opts {
		opt(req)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, &TransportError{Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		c.logger.Warn("api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, &TransportError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestsTotal.WithLabelValues(method, "http_error").Inc()
		c.logger.Warn("api returned non-2xx status",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, &TransportError{Cause: err}
	}

	if !envelope.Success {
		requestsTotal.WithLabelValues(method, "api_error").Inc()
		msg := envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
		return nil, &ApplicationError{Message: msg}
	}

	requestsTotal.WithLabelValues(method, "ok").Inc()
	c.logger.Debug("api request ok",
		slog.String("method", method),
		slog.String("path", path))

	return envelope.Data, nil
}
