package vpnapi

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"

	"vpnctl-bot/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	u, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("parsing test server url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("splitting host/port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parsing port: %v", err)
	}

	cfg := config.APIConfig{
		Scheme:   u.Scheme,
		Host:     host,
		Port:     uint16(port),
		BasePath: "/api/v1",
		Timeout:  5 * time.Second,
	}
	cfg.RateLimit.Burst = 10
	cfg.RateLimit.RPS = 1000

	return NewClient(cfg, testLogger())
}

func TestDoReturnsEnvelopeData(t *testing.T) {
	var gotPath, gotContentType, gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"token":"abc"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	data, err := client.Do(context.Background(), http.MethodPost, "/auth/login", LoginRequest{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if string(data) != `{"token":"abc"}` {
		t.Errorf("Do() data = %s, want token payload", data)
	}
	if gotPath != "/api/v1/auth/login" {
		t.Errorf("request path = %q, want /api/v1/auth/login", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestDoApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"user already exists"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Do(context.Background(), http.MethodPost, "/vpn/ssh/create", nil)
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("Do() error = %v, want *ApplicationError", err)
	}
	if appErr.Message != "user already exists" {
		t.Errorf("Message = %q, want %q", appErr.Message, "user already exists")
	}
}

func TestDoApplicationErrorFallsBackToMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"not found"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Do(context.Background(), http.MethodGet, "/vpn/ssh/users", nil)
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("Do() error = %v, want *ApplicationError", err)
	}
	if appErr.Message != "not found" {
		t.Errorf("Message = %q, want %q", appErr.Message, "not found")
	}
}

func TestDoRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Do(context.Background(), http.MethodGet, "/system/status", nil)
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("Do() error = %v, want *RemoteError", err)
	}
	if remoteErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", remoteErr.StatusCode, http.StatusServiceUnavailable)
	}
	if remoteErr.Body != "upstream down" {
		t.Errorf("Body = %q, want %q", remoteErr.Body, "upstream down")
	}
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, srv.URL)
	srv.Close()

	_, err := client.Do(context.Background(), http.MethodGet, "/system/status", nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Do() error = %v, want *TransportError", err)
	}
}

func TestDoMalformedEnvelopeIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Do(context.Background(), http.MethodGet, "/system/status", nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Do() error = %v, want *TransportError", err)
	}
}

func TestWithBearerSetsAuthorization(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	if _, err := client.Do(context.Background(), http.MethodGet, "/system/status", nil, WithBearer("tok123")); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
}
