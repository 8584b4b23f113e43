package area

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

// Repository persists areas in SQLite.
type Repository struct {
	db  database.DBTX
	now func() time.Time
}

// NewRepository creates a repository over db.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx, now: r.now}
}

// Create inserts a and sets its ID and UpdatedAt.
func (r *Repository) Create(ctx context.Context, a *Area) error {
	a.UpdatedAt = r.now().UTC().Truncate(time.Microsecond)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO areas (name, sector, status, updated_at) VALUES (?, ?, ?, ?)`,
		a.Name, a.Sector, string(a.Status), database.FormatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting area %q: %w", a.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading area id: %w", err)
	}
	a.ID = id
	return nil
}

// Get retrieves an area by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Area, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, sector, status, updated_at FROM areas WHERE id = ?`, id)
	return scanArea(row)
}

// List returns every area ordered by ID.
func (r *Repository) List(ctx context.Context) ([]Area, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, sector, status, updated_at FROM areas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}
	defer rows.Close()

	areas := []Area{}
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating areas: %w", err)
	}
	return areas, nil
}

// SetStatus changes the status of area id and refreshes UpdatedAt.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) (time.Time, error) {
	at := r.now().UTC().Truncate(time.Microsecond)
	result, err := r.db.ExecContext(ctx,
		`UPDATE areas SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), database.FormatTime(at), id,
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("updating area %d: %w", id, err)
	}
	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return time.Time{}, ErrNotFound
	}
	return at, nil
}

// Count returns the number of areas.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM areas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting areas: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArea(s scanner) (*Area, error) {
	var a Area
	var status, updatedAt string
	if err := s.Scan(&a.ID, &a.Name, &a.Sector, &status, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning area: %w", err)
	}
	a.Status = Status(status)
	var err error
	if a.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
