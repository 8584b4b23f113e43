package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

const columns = `id, name, category, status, location, created_at, updated_at`

// Repository persists resources in SQLite.
type Repository struct {
	db  database.DBTX
	now func() time.Time
}

// NewRepository creates a repository over db, which may be the database
// or a transaction.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx, now: r.now}
}

// Create inserts res and sets its ID and timestamps.
func (r *Repository) Create(ctx context.Context, res *Resource) error {
	now := r.now().UTC().Truncate(time.Microsecond)
	res.CreatedAt, res.UpdatedAt = now, now

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (name, category, status, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.Name, res.Category, string(res.Status), res.Location,
		database.FormatTime(now), database.FormatTime(now),
	)
	if err != nil {
		return fmt.Errorf("inserting resource %q: %w", res.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading resource id: %w", err)
	}
	res.ID = id
	return nil
}

// Get retrieves a resource by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Resource, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM resources WHERE id = ?", id)
	return scanResource(row)
}

// List returns resources matching f, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Resource, error) {
	query := "SELECT " + columns + " FROM resources"
	var conds []string
	var args []any
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	resources := []Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return resources, nil
}

// Update writes the mutable fields of res and refreshes UpdatedAt.
func (r *Repository) Update(ctx context.Context, res *Resource) error {
	res.UpdatedAt = r.now().UTC().Truncate(time.Microsecond)

	result, err := r.db.ExecContext(ctx,
		`UPDATE resources SET name = ?, category = ?, status = ?, location = ?, updated_at = ? WHERE id = ?`,
		res.Name, res.Category, string(res.Status), res.Location,
		database.FormatTime(res.UpdatedAt), res.ID,
	)
	if err != nil {
		return fmt.Errorf("updating resource %d: %w", res.ID, err)
	}
	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a resource by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM resources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting resource %d: %w", id, err)
	}
	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of resources, or of those with status when it
// is not empty.
func (r *Repository) Count(ctx context.Context, status Status) (int, error) {
	query := "SELECT COUNT(*) FROM resources"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return n, nil
}

// CountByCategory groups resources by category, largest first.
func (r *Repository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) AS total FROM resources
		 GROUP BY category ORDER BY total DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("counting resources by category: %w", err)
	}
	defer rows.Close()

	counts := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category counts: %w", err)
	}
	return counts, nil
}

// scanner is satisfied by sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResource(s scanner) (*Resource, error) {
	var res Resource
	var status, createdAt, updatedAt string
	err := s.Scan(&res.ID, &res.Name, &res.Category, &status, &res.Location, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning resource: %w", err)
	}
	res.Status = Status(status)
	if res.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if res.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}
