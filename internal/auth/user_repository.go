package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

const userColumns = `id, display_name, username, password_hash, job_title, role, status, created_at`

// UserRepository persists user accounts in SQLite.
type UserRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewUserRepository creates a repository over db, which may be the
// database or a transaction.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx, now: r.now}
}

// Create inserts user and sets its ID and CreatedAt.
// A duplicate username returns ErrUsernameExists.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	user.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (display_name, username, password_hash, job_title, role, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.DisplayName, user.Username, user.PasswordHash, user.JobTitle,
		string(user.Role), string(user.Status), database.FormatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Update writes every mutable field of user, including the password hash.
func (r *UserRepository) Update(ctx context.Context, user *User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, job_title = ?, role = ?, status = ?, password_hash = ? WHERE id = ?`,
		user.DisplayName, user.JobTitle, string(user.Role), string(user.Status), user.PasswordHash, user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user account by ID.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Count returns the total number of user accounts.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// CountActive returns the number of accounts with status ativo.
func (r *UserRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE status = ?", string(StatusActive),
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting active users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

// scanner is satisfied by sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*User, error) {
	var u User
	var role, status, createdAt string

	err := s.Scan(&u.ID, &u.DisplayName, &u.Username, &u.PasswordHash,
		&u.JobTitle, &role, &status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Role = Role(role)
	u.Status = Status(status)
	if u.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
