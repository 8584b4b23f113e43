package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/area"
	"github.com/wayneindustries/security-core/internal/auth"
	"github.com/wayneindustries/security-core/internal/dashboard"
	"github.com/wayneindustries/security-core/internal/infrastructure/config"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	"github.com/wayneindustries/security-core/internal/resource"
	_ "github.com/wayneindustries/security-core/migrations"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

var testWSConfig = config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}

// testEnv is a server over a freshly seeded database.
type testEnv struct {
	srv     *Server
	handler http.Handler
	db      *database.DB
	log     *accesslog.Repository
	codec   *auth.TokenCodec
}

// newTestEnv builds the full service graph the way the binary does, with
// the hub wired as an access-log sink.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "api.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	logger := logging.Discard()
	hasher := auth.NewHasher(config.PasswordSchemeSHA256)
	userRepo := auth.NewUserRepository(db)
	if _, err := auth.SeedUsers(ctx, userRepo, hasher, logger); err != nil {
		t.Fatalf("SeedUsers() error = %v", err)
	}
	if _, err := resource.Seed(ctx, resource.NewRepository(db), logger); err != nil {
		t.Fatalf("resource.Seed() error = %v", err)
	}
	if _, err := area.Seed(ctx, area.NewRepository(db), logger); err != nil {
		t.Fatalf("area.Seed() error = %v", err)
	}

	hub := NewHub(testWSConfig, logger)
	go hub.Run(ctx)

	accessLog := accesslog.NewRepository(db)
	dispatcher := accesslog.NewDispatcher(logger, hub)
	accessLog.SetPublisher(dispatcher)
	go dispatcher.Run(ctx)

	codec := auth.NewTokenCodec(auth.TokenConfig{Secret: testSecret, TTL: auth.DefaultTokenTTL})
	users := auth.NewUserService(db, accessLog, hasher, "wayne123")
	resources := resource.NewService(db, accessLog)

	srv, err := New(Deps{
		Config:        config.APIConfig{Host: "127.0.0.1", Port: 0},
		WS:            testWSConfig,
		Logger:        logger,
		Guard:         auth.NewGuard(codec),
		Authenticator: auth.NewAuthenticator(userRepo, hasher, codec, accessLog),
		Users:         users,
		Resources:     resources,
		Areas:         area.NewService(db, accessLog, logger),
		AccessLog:     accessLog,
		Dashboard:     dashboard.NewService(resources, users, accessLog),
		Hub:           hub,
		Health:        map[string]HealthChecker{"database": db},
		Version:       "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &testEnv{srv: srv, handler: srv.Handler(), db: db, log: accessLog, codec: codec}
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// login returns a token for a seeded account.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/login", "", loginRequest{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", username, w.Code, w.Body.String())
	}
	var resp auth.LoginResult
	decode(t, w, &resp)
	return resp.Token
}

func (e *testEnv) adminToken(t *testing.T) string   { return e.login(t, "admin", "wayne123") }
func (e *testEnv) managerToken(t *testing.T) string { return e.login(t, "bruce", "batman456") }
func (e *testEnv) staffToken(t *testing.T) string   { return e.login(t, "alfred", "butler789") }

// entries returns the access log, newest first.
func (e *testEnv) entries(t *testing.T) []accesslog.Entry {
	t.Helper()
	list, err := e.log.Recent(context.Background(), accesslog.MaxLimit)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	return list
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

// assertError checks status, code and message of an error envelope.
func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code, message string) {
	t.Helper()
	if w.Code != status {
		t.Errorf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	var resp Error
	decode(t, w, &resp)
	if resp.Status != status || resp.Code != code {
		t.Errorf("envelope = %+v, want status %d code %q", resp, status, code)
	}
	if message != "" && (resp.Message != message || resp.Error != message) {
		t.Errorf("message = %q / error = %q, want %q", resp.Message, resp.Error, message)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
