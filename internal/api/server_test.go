package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wayneindustries/security-core/internal/auth"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	"github.com/wayneindustries/security-core/internal/resource"
)

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() with no logger should fail")
	}
	if _, err := New(Deps{Logger: logging.Discard()}); err == nil {
		t.Error("New() with no guard should fail")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp struct {
		Status  string            `json:"status"`
		Version string            `json:"version"`
		Checks  map[string]string `json:"checks"`
	}
	decode(t, w, &resp)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("health = %+v", resp)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("database check = %q, want ok", resp.Checks["database"])
	}
}

type failingCheck struct{}

func (failingCheck) HealthCheck(context.Context) error { return errors.New("broker unreachable") }

func TestHealth_Degraded(t *testing.T) {
	env := newTestEnv(t)
	env.srv.health["mqtt"] = failingCheck{}

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("health status = %d, want 503", w.Code)
	}
	var resp map[string]any
	decode(t, w, &resp)
	if resp["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", resp["status"])
	}
}

func TestHealthCheck_NotStarted(t *testing.T) {
	env := newTestEnv(t)
	if err := env.srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start should fail")
	}
	if err := env.srv.Close(); err != nil {
		t.Errorf("Close() before Start error = %v", err)
	}
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w = httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want client-123", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/recursos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/nonexistent", "", nil)
	assertError(t, w, http.StatusNotFound, ErrCodeNotFound, "")
}

func TestRecoveryMiddleware(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assertError(t, w, http.StatusInternalServerError, ErrCodeInternal, msgInternal)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"remote addr", "", "10.1.2.3:5555", "10.1.2.3"},
		{"forwarded single", "203.0.113.7", "10.1.2.3:5555", "203.0.113.7"},
		{"forwarded chain", "203.0.113.7, 10.0.0.1", "10.1.2.3:5555", "203.0.113.7"},
		{"forwarded blank", " ", "10.1.2.3:5555", "10.1.2.3"},
		{"no port", "", "10.1.2.3", "10.1.2.3"},
		{"ipv6", "", "[::1]:5555", "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"abc.def.ghi", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := bearerToken(req); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestWriteServiceError_Mapping(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{resource.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, msgResourceNotFound},
		{resource.ErrMissingFields, http.StatusBadRequest, ErrCodeValidation, msgResourceFields},
		{auth.ErrUsernameExists, http.StatusBadRequest, ErrCodeConflict, msgUsernameExists},
		{auth.ErrSelfDelete, http.StatusBadRequest, ErrCodeConflict, msgSelfDelete},
		{auth.ErrInvalidRole, http.StatusBadRequest, ErrCodeValidation, "unknown role"},
		{fmt.Errorf("querying: %w", errors.New("disk I/O error")), http.StatusInternalServerError, ErrCodeInternal, msgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			env.srv.writeServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assertError(t, w, tt.status, tt.code, tt.message)
		})
	}
}
