package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// openTestDB opens a fresh database in a temp directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	return db
}

func TestOpen(t *testing.T) {
	t.Run("creates nested directory and file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

		db, err := Open(Config{Path: dbPath, WALMode: true, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != dbPath {
			t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
		}
	})

	t.Run("single connection pool", func(t *testing.T) {
		db := openTestDB(t)
		if got := db.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("MaxOpenConnections = %d, want 1", got)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	db := openTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	db.DB = nil
	if err := db.Close(); err != nil {
		t.Errorf("Close() on nil DB error = %v", err)
	}
}

func TestWithTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}

	count := func() int {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
			t.Fatalf("counting: %v", err)
		}
		return n
	}

	t.Run("commits on success", func(t *testing.T) {
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "batarang")
			return err
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}
		if got := count(); got != 1 {
			t.Errorf("row count = %d, want 1", got)
		}
	})

	t.Run("rolls back and returns callback error", func(t *testing.T) {
		sentinel := errors.New("abort")
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "grapple"); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("WithTx() error = %v, want sentinel", err)
		}
		if got := count(); got != 1 {
			t.Errorf("row count = %d, want 1 after rollback", got)
		}
	})
}

func TestDBTXImplementations(t *testing.T) {
	var _ DBTX = (*sql.DB)(nil)
	var _ DBTX = (*sql.Tx)(nil)
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	earlier := time.Date(2026, 3, 9, 23, 59, 59, 5000, loc) // 2026-03-10T02:59:59Z
	later := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	a, b := FormatTime(earlier), FormatTime(later)
	if len(a) != len(b) {
		t.Fatalf("formatted lengths differ: %q vs %q", a, b)
	}
	if a >= b {
		t.Errorf("FormatTime order: %q should sort before %q", a, b)
	}

	parsed, err := ParseTime(a)
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if !parsed.Equal(earlier.Truncate(time.Microsecond)) {
		t.Errorf("ParseTime() = %v, want %v", parsed, earlier)
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("ParseTime() expected error for garbage input")
	}
}
