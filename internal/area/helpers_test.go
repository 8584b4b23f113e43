package area

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	_ "github.com/wayneindustries/security-core/migrations"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "area.db"),
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


type published struct {
	topic    string
	payload  any
	retained bool
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *recordingPublisher) PublishJSON(topic string, v any, retained bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{topic: topic, payload: v, retained: retained})
	return p.err
}

type statusWrite struct {
	areaID int64
	name   string
	status string
}

type recordingWriter struct {
	writes []statusWrite
}

func (w *recordingWriter) WriteAreaStatus(areaID int64, name, status string, _ time.Time) {
	w.writes = append(w.writes, statusWrite{areaID: areaID, name: name, status: status})
}

func seededService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db := testDB(t)
	if _, err := Seed(context.Background(), NewRepository(db), logging.Discard()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return NewService(db, accesslog.NewRepository(db), logging.Discard()), db
}
