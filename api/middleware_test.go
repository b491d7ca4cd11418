package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		path       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "Normal: Valid Bearer token returns 200",
			token:      "secret-token",
			path:       "/api/state",
			authHeader: "Bearer secret-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Edge: Missing Authorization header returns 401",
			token:      "secret-token",
			path:       "/api/state",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Edge: Malformed Bearer token returns 401",
			token:      "secret-token",
			path:       "/api/state",
			authHeader: "secret-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Edge: Invalid Bearer token returns 401",
			token:      "secret-token",
			path:       "/api/channels",
			authHeader: "Bearer wrong-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Edge: Empty Bearer token returns 401",
			token:      "secret-token",
			path:       "/api/state",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Normal: Health check bypasses auth",
			token:      "secret-token",
			path:       "/health",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Normal: Metrics bypass auth",
			token:      "secret-token",
			path:       "/metrics",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			BearerAuth(tt.token)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name           string
		requestsPerSec int
		burstSize      int
		requestCount   int
		wantStatus     int
	}{
		{
			name:           "Normal: Under rate limit returns 200",
			requestsPerSec: 10,
			burstSize:      5,
			requestCount:   3,
			wantStatus:     http.StatusOK,
		},
		{
			name:           "Edge: Rate limit exhausted returns 429",
			requestsPerSec: 1,
			burstSize:      2,
			requestCount:   5,
			wantStatus:     http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			wrapped := RateLimit(ctx, tt.requestsPerSec, tt.burstSize)(okHandler())

			req := httptest.NewRequest("GET", "/api/state", nil)
			req.RemoteAddr = "127.0.0.1:12345"

			lastStatus := http.StatusOK
			for i := 0; i < tt.requestCount; i++ {
				rec := httptest.NewRecorder()
				wrapped.ServeHTTP(rec, req)
				lastStatus = rec.Code
			}

			if lastStatus != tt.wantStatus {
				t.Errorf("Final status = %d, want %d", lastStatus, tt.wantStatus)
			}
		})
	}
}

func TestRateLimit_PerClientIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wrapped := RateLimit(ctx, 1, 1)(okHandler())

	first := httptest.NewRequest("GET", "/api/state", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	second := httptest.NewRequest("GET", "/api/state", nil)
	second.RemoteAddr = "10.0.0.1:2000"
	other := httptest.NewRequest("GET", "/api/state", nil)
	other.RemoteAddr = "10.0.0.2:1000"

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("First request status = %d, want 200", rec.Code)
	}

	// same IP, different port shares the bucket
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, second)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Same-IP request status = %d, want 429", rec.Code)
	}

	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("Other-IP request status = %d, want 200", rec.Code)
	}
}

func TestRateLimit_RecoveryAfterWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wrapped := RateLimit(ctx, 10, 1)(okHandler())

	req := httptest.NewRequest("GET", "/api/state", nil)
	req.RemoteAddr = "127.0.0.1:12346"

	for i := 0; i < 3; i++ {
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}

	time.Sleep(250 * time.Millisecond)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Status after wait = %d, want 200", rec.Code)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/api/state", nil)
	req.Header.Set("Authorization", "Bearer super-secret")
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, `"path":"/api/state"`) {
		t.Errorf("Log should contain the path, got %s", out)
	}
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("Log should contain the status code, got %s", out)
	}
	if strings.Contains(out, "super-secret") {
		t.Errorf("Log must not contain the bearer token, got %s", out)
	}
}

func TestSecurityHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	SecurityHeaders()(okHandler()).ServeHTTP(rec, req)

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("Header %s = %q, want %q", k, got, v)
		}
	}
}
