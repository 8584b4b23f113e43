package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/resource"
)

const (
	// RecentActivityLimit is how many log entries the overview lists.
	RecentActivityLimit = 10

	// AlertWindow is the look-back window for denied entries.
	AlertWindow = 24 * time.Hour
)

// ResourceCounter is satisfied by *resource.Service.
type ResourceCounter interface {
	Count(ctx context.Context, status resource.Status) (int, error)
	CountByCategory(ctx context.Context) ([]resource.CategoryCount, error)
}

// UserCounter is satisfied by *auth.UserService.
type UserCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// ActivityReader is satisfied by *accesslog.Repository.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]accesslog.Entry, error)
	CountDenied(ctx context.Context, since time.Time) (int, error)
	DailyCounts(ctx context.Context, days int, now time.Time) ([]accesslog.DailyCount, error)
}

// Stats is the overview payload.
type Stats struct {
	TotalResources      int                      `json:"total_recursos"`
	ActiveResources     int                      `json:"recursos_ativos"`
	TotalUsers          int                      `json:"total_usuarios"`
	Alerts24h           int                      `json:"alertas_24h"`
	RecentActivity      []accesslog.Entry        `json:"atividades_recentes"`
	WeeklyActivity      []int                    `json:"atividade_semanal"`
	DayLabels           []string                 `json:"dias_labels"`
	ResourcesByCategory []resource.CategoryCount `json:"recursos_por_categoria"`
}

// Service computes Stats.
type Service struct {
	resources ResourceCounter
	users     UserCounter
	activity  ActivityReader
	now       func() time.Time
}

// NewService creates a dashboard service.
func NewService(resources ResourceCounter, users UserCounter, activity ActivityReader) *Service {
	return &Service{
		resources: resources,
		users:     users,
		activity:  activity,
		now:       time.Now,
	}
}

// Stats gathers the overview figures. Each figure is read independently,
// so the result is not a single consistent snapshot.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	var st Stats
	var err error

	if st.TotalResources, err = s.resources.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("counting resources: %w", err)
	}
	if st.ActiveResources, err = s.resources.Count(ctx, resource.StatusActive); err != nil {
		return nil, fmt.Errorf("counting active resources: %w", err)
	}
	if st.TotalUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("counting active users: %w", err)
	}
	if st.Alerts24h, err = s.activity.CountDenied(ctx, now.Add(-AlertWindow)); err != nil {
		return nil, fmt.Errorf("counting denied entries: %w", err)
	}
	if st.RecentActivity, err = s.activity.Recent(ctx, RecentActivityLimit); err != nil {
		return nil, fmt.Errorf("reading recent activity: %w", err)
	}

	days, err := s.activity.DailyCounts(ctx, accesslog.DefaultReportDays, now)
	if err != nil {
		return nil, fmt.Errorf("reading weekly activity: %w", err)
	}
	st.WeeklyActivity = make([]int, len(days))
	st.DayLabels = make([]string, len(days))
	for i, d := range days {
		st.WeeklyActivity[i] = d.Count
		st.DayLabels[i] = d.Label
	}

	if st.ResourcesByCategory, err = s.resources.CountByCategory(ctx); err != nil {
		return nil, fmt.Errorf("grouping resources: %w", err)
	}
	return &st, nil
}
