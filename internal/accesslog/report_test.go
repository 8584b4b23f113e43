package accesslog

import (
	"context"
	"testing"
	"time"
)

func TestRepository_DailyCounts(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	record := func(at time.Time) {
		t.Helper()
		repo.now = func() time.Time { return at }
		if err := repo.Append(ctx, Actor{Username: "admin"}.Success(ActionLogin, "Login bem-sucedido")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	// 09:00 on 10/03 in the display zone.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	record(time.Date(2026, 3, 4, 2, 59, 0, 0, time.UTC)) // 03/03 23:59 local, outside the window
	record(time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC))  // 04/03 00:00 local
	record(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)) // 09/03 23:00 local
	record(time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)) // 10/03 01:00 local
	record(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC))

	got, err := repo.DailyCounts(ctx, 7, now)
	if err != nil {
		t.Fatalf("DailyCounts() error = %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("DailyCounts() returned %d buckets, want 7", len(got))
	}

	wantLabels := []string{"04/03", "05/03", "06/03", "07/03", "08/03", "09/03", "10/03"}
	wantCounts := []int{1, 0, 0, 0, 0, 1, 2}
	for i := range got {
		if got[i].Label != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, got[i].Label, wantLabels[i])
		}
		if got[i].Count != wantCounts[i] {
			t.Errorf("bucket %d (%s) count = %d, want %d", i, got[i].Label, got[i].Count, wantCounts[i])
		}
	}
}

func TestRepository_DailyCountsEmpty(t *testing.T) {
	repo := NewRepository(testDB(t))

	got, err := repo.DailyCounts(context.Background(), 0, time.Now())
	if err != nil {
		t.Fatalf("DailyCounts() error = %v", err)
	}
	if len(got) != DefaultReportDays {
		t.Fatalf("DailyCounts(0) returned %d buckets, want %d", len(got), DefaultReportDays)
	}
	for _, d := range got {
		if d.Count != 0 {
			t.Errorf("bucket %s count = %d, want 0", d.Label, d.Count)
		}
	}
}
