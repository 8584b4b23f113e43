package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/auth"
	"github.com/wayneindustries/security-core/internal/infrastructure/config"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	"github.com/wayneindustries/security-core/internal/resource"
	_ "github.com/wayneindustries/security-core/migrations"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "dashboard.db"),
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

func TestStats_SeededStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	logger := logging.Discard()
	hasher := auth.NewHasher(config.PasswordSchemeSHA256)

	if _, err := auth.SeedUsers(ctx, auth.NewUserRepository(db), hasher, logger); err != nil {
		t.Fatalf("SeedUsers() error = %v", err)
	}
	if _, err := resource.Seed(ctx, resource.NewRepository(db), logger); err != nil {
		t.Fatalf("resource.Seed() error = %v", err)
	}

	log := accesslog.NewRepository(db)
	actor := accesslog.Actor{Username: "admin", IP: "127.0.0.1"}
	for i := 0; i < 12; i++ {
		if err := log.Append(ctx, actor.Success(accesslog.ActionLogin, "Login bem-sucedido")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := log.Append(ctx, actor.Denied(accesslog.ActionLogin, "Credenciais inválidas")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	users := auth.NewUserService(db, log, hasher, "wayne123")
	svc := NewService(resource.NewService(db, log), users, log)

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if st.TotalResources != 8 || st.ActiveResources != 6 {
		t.Errorf("resources = %d total, %d active; want 8 and 6", st.TotalResources, st.ActiveResources)
	}
	if st.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", st.TotalUsers)
	}
	if st.Alerts24h != 3 {
		t.Errorf("Alerts24h = %d, want 3", st.Alerts24h)
	}
	if len(st.RecentActivity) != RecentActivityLimit {
		t.Errorf("RecentActivity has %d entries, want %d", len(st.RecentActivity), RecentActivityLimit)
	}
	if st.RecentActivity[0].Outcome != accesslog.OutcomeDenied {
		t.Errorf("newest entry outcome = %q, want negado", st.RecentActivity[0].Outcome)
	}
	if len(st.WeeklyActivity) != 7 || len(st.DayLabels) != 7 {
		t.Fatalf("weekly series lengths = %d, %d; want 7", len(st.WeeklyActivity), len(st.DayLabels))
	}
	total := 0
	for _, n := range st.WeeklyActivity {
		total += n
	}
	if total != 15 {
		t.Errorf("weekly activity sums to %d, want 15", total)
	}
	if want := time.Now().In(accesslog.DisplayZone).Format("02/01"); st.DayLabels[6] != want {
		t.Errorf("last label = %q, want today %q", st.DayLabels[6], want)
	}
	if len(st.ResourcesByCategory) != 6 {
		t.Errorf("ResourcesByCategory has %d groups, want 6", len(st.ResourcesByCategory))
	}
}

func TestStats_EmptyStore(t *testing.T) {
	db := testDB(t)
	log := accesslog.NewRepository(db)
	users := auth.NewUserService(db, log, auth.NewHasher(config.PasswordSchemeSHA256), "wayne123")
	svc := NewService(resource.NewService(db, log), users, log)

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.TotalResources != 0 || st.TotalUsers != 0 || st.Alerts24h != 0 {
		t.Errorf("Stats() = %+v, want zeros", st)
	}
	if st.RecentActivity == nil || st.ResourcesByCategory == nil {
		t.Error("empty lists should be non-nil so they encode as []")
	}
	for _, n := range st.WeeklyActivity {
		if n != 0 {
			t.Errorf("WeeklyActivity = %v, want all zero", st.WeeklyActivity)
			break
		}
	}
}

type failingUsers struct{}

func (failingUsers) CountActive(context.Context) (int, error) {
	return 0, errors.New("disk I/O error")
}

func TestStats_PropagatesErrors(t *testing.T) {
	db := testDB(t)
	log := accesslog.NewRepository(db)
	svc := NewService(resource.NewService(db, log), failingUsers{}, log)

	if _, err := svc.Stats(context.Background()); err == nil {
		t.Fatal("Stats() should fail when a counter fails")
	}
}
