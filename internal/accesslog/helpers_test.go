package accesslog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	_ "github.com/wayneindustries/security-core/migrations"
)

// testDB opens a migrated database in a temp dir.
func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "accesslog.db"),
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

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

// recordingPublisher collects published entries.
type recordingPublisher struct {
	entries []Entry
}

func (p *recordingPublisher) Publish(e Entry) {
	p.entries = append(p.entries, e)
}
