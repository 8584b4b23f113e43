package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	_ "github.com/wayneindustries/security-core/migrations"
)

const testSecret = "test-secret-key-for-jwt-signing-32b"

// testDB creates a temporary SQLite database with the schema applied.
func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "auth.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

// seedTestUser inserts an active user with the given password and role.
func seedTestUser(t *testing.T, db *database.DB, username, password string, role Role) *User {
	t.Helper()

	user := &User{
		DisplayName:  username,
		Username:     username,
		PasswordHash: HashPassword(password),
		JobTitle:     DefaultJobTitle,
		Role:         role,
		Status:       StatusActive,
	}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return user
}

// testCodec returns a codec whose clock the test controls.
func testCodec(now *time.Time) *TokenCodec {
	c := NewTokenCodec(TokenConfig{Secret: testSecret, TTL: DefaultTokenTTL})
	c.now = func() time.Time { return *now }
	return c
}

// logEntries returns the access log, newest first.
func logEntries(t *testing.T, db *database.DB) []accesslog.Entry {
	t.Helper()
	entries, err := accesslog.NewRepository(db).Recent(context.Background(), accesslog.MaxLimit)
	if err != nil {
		t.Fatalf("reading access log: %v", err)
	}
	return entries
}
