package resource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	_ "github.com/wayneindustries/security-core/migrations"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "resource.db"),
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

func logEntries(t *testing.T, db *database.DB) []accesslog.Entry {
	t.Helper()
	entries, err := accesslog.NewRepository(db).Recent(context.Background(), accesslog.MaxLimit)
	if err != nil {
		t.Fatalf("reading access log: %v", err)
	}
	return entries
}

func strPtr(s string) *string { return &s }
