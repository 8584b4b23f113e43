package accesslog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

// Publisher receives entries after they are durably stored.
// Dispatcher is the production implementation.
type Publisher interface {
	Publish(e Entry)
}

// Repository appends to and reads from the access_logs table.
//
// There is no update or delete; the schema rejects both with triggers.
type Repository struct {
	db        *database.DB
	publisher Publisher
	now       func() time.Time
}

// NewRepository creates a repository over db.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// SetPublisher registers the fan-out target for committed entries.
// It must be called before the repository is shared between goroutines.
func (r *Repository) SetPublisher(p Publisher) {
	r.publisher = p
}

// Record inserts e through exec, which may be the database or a caller's
// transaction. The server assigns CreatedAt and ID. Record does not
// publish; the caller does so once the surrounding transaction commits.
func (r *Repository) Record(ctx context.Context, exec database.Execer, e *Entry) error {
	if e == nil || e.Action == "" || !e.Outcome.Valid() {
		return ErrInvalidEntry
	}
	if e.Actor == "" {
		e.Actor = UnknownActor
	}
	e.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	res, err := exec.ExecContext(ctx,
		`INSERT INTO access_logs (actor, action, outcome, ip, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Actor, e.Action, string(e.Outcome), e.IP, e.Detail,
		database.FormatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting access log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading access log id: %w", err)
	}
	e.ID = id
	return nil
}

// Append records e on its own and publishes it.
func (r *Repository) Append(ctx context.Context, e *Entry) error {
	if err := r.Record(ctx, r.db, e); err != nil {
		return err
	}
	r.publish(*e)
	return nil
}

// Audited runs fn in a transaction and records the entry fn returns in
// that same transaction, so a mutation and its log entry commit or roll
// back together. The entry is published after commit.
func (r *Repository) Audited(ctx context.Context, fn func(tx *sql.Tx) (*Entry, error)) error {
	var committed *Entry
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		e, err := fn(tx)
		if err != nil {
			return err
		}
		if err := r.Record(ctx, tx, e); err != nil {
			return err
		}
		committed = e
		return nil
	})
	if err != nil {
		return err
	}
	r.publish(*committed)
	return nil
}

func (r *Repository) publish(e Entry) {
	if r.publisher != nil {
		r.publisher.Publish(e)
	}
}

// Recent returns up to ClampLimit(limit) entries, newest first.
// Entries sharing a timestamp are ordered by descending id.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor, action, outcome, ip, detail, created_at
		 FROM access_logs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying access logs: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var outcome, createdAt string
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &outcome, &e.IP, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning access log: %w", err)
		}
		e.Outcome = Outcome(outcome)
		if e.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating access logs: %w", err)
	}
	return entries, nil
}

// Count returns the number of entries with the given outcome recorded
// strictly after since. Both sides of the comparison are UTC.
func (r *Repository) Count(ctx context.Context, outcome Outcome, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM access_logs WHERE outcome = ? AND created_at > ?`,
		string(outcome), database.FormatTime(since),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting access logs: %w", err)
	}
	return n, nil
}

// CountDenied returns the number of denied entries recorded after since.
func (r *Repository) CountDenied(ctx context.Context, since time.Time) (int, error) {
	return r.Count(ctx, OutcomeDenied, since)
}
