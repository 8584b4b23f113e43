package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{
		DisplayName:  "Lucius Fox",
		Username:     "lucius",
		PasswordHash: HashPassword("password123"),
		JobTitle:     "Diretor de P&D",
		Role:         RoleGerente,
		Status:       StatusActive,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Create() should assign an ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	byName, err := repo.GetByUsername(ctx, "lucius")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}

	for _, got := range []*User{byID, byName} {
		if got.ID != user.ID {
			t.Errorf("ID = %d, want %d", got.ID, user.ID)
		}
		if got.DisplayName != "Lucius Fox" || got.JobTitle != "Diretor de P&D" {
			t.Errorf("got %+v", got)
		}
		if got.Role != RoleGerente || got.Status != StatusActive {
			t.Errorf("Role/Status = %q/%q", got.Role, got.Status)
		}
		if got.PasswordHash != user.PasswordHash {
			t.Error("PasswordHash should round-trip")
		}
		if !got.CreatedAt.Equal(user.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, user.CreatedAt)
		}
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrUserNotFound", err)
	}
	if err := repo.Update(ctx, &User{ID: 999, Role: RoleFuncionario, Status: StatusActive}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Update() error = %v, want ErrUserNotFound", err)
	}
	if err := repo.Delete(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Delete() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	seedTestUser(t, db, "bruce", "batman456", RoleGerente)

	dup := &User{
		DisplayName:  "Impostor",
		Username:     "bruce",
		PasswordHash: HashPassword("x"),
		JobTitle:     DefaultJobTitle,
		Role:         RoleFuncionario,
		Status:       StatusActive,
	}
	if err := repo.Create(context.Background(), dup); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Create() error = %v, want ErrUsernameExists", err)
	}
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		u := &User{DisplayName: name, Username: name, PasswordHash: HashPassword(name),
			JobTitle: DefaultJobTitle, Role: RoleFuncionario, Status: StatusActive}
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("List() returned %d users, want 3", len(users))
	}
	if users[0].Username != "third" || users[2].Username != "first" {
		t.Errorf("List() order = [%s %s %s], want newest first",
			users[0].Username, users[1].Username, users[2].Username)
	}
}

func TestUserRepository_UpdateAndCount(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, db, "alfred", "butler789", RoleFuncionario)
	seedTestUser(t, db, "bruce", "batman456", RoleGerente)

	user.Status = StatusInactive
	user.JobTitle = "Mordomo"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusInactive || got.JobTitle != "Mordomo" {
		t.Errorf("after Update got %+v", got)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	active, err := repo.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if total != 2 || active != 1 {
		t.Errorf("Count() = %d, CountActive() = %d, want 2 and 1", total, active)
	}
}

func TestUserRepository_RoleConstraint(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	u := &User{DisplayName: "x", Username: "x", PasswordHash: "h",
		JobTitle: DefaultJobTitle, Role: "owner", Status: StatusActive}
	if err := repo.Create(context.Background(), u); err == nil {
		t.Error("Create() with an unknown role should violate the CHECK constraint")
	}
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	u := User{ID: 1, Username: "admin", PasswordHash: "secret-digest", Role: RoleAdmin}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	data := string(b)
	if strings.Contains(data, "secret-digest") || strings.Contains(data, "password") {
		t.Errorf("user JSON leaks the password hash: %s", data)
	}
	for _, key := range []string{`"nome"`, `"cargo"`, `"username"`, `"role"`, `"status"`} {
		if !strings.Contains(data, key) {
			t.Errorf("user JSON missing %s: %s", key, data)
		}
	}
}
