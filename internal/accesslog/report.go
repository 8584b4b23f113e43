package accesslog

import (
	"context"
	"fmt"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

// DisplayZone is the fixed UTC-3 zone used to bucket activity by day.
// Storage stays UTC; only reports use this zone.
var DisplayZone = time.FixedZone("UTC-3", -3*60*60)

// DefaultReportDays is the window of the weekly activity chart.
const DefaultReportDays = 7

// dayLabelLayout renders bucket labels as dd/mm.
const dayLabelLayout = "02/01"

// DailyCount is the number of entries in one display-zone calendar day.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// DailyCounts buckets entries by calendar day in DisplayZone for the
// `days` days ending with the day containing now. The result is ordered
// oldest to newest and always has exactly `days` elements.
func (r *Repository) DailyCounts(ctx context.Context, days int, now time.Time) ([]DailyCount, error) {
	if days <= 0 {
		days = DefaultReportDays
	}

	local := now.In(DisplayZone)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, DisplayZone)
	start := today.AddDate(0, 0, -(days - 1))
	end := today.AddDate(0, 0, 1)

	counts := make([]DailyCount, days)
	index := make(map[string]int, days)
	for i := range counts {
		day := start.AddDate(0, 0, i)
		counts[i] = DailyCount{Day: day, Label: day.Format(dayLabelLayout)}
		index[day.Format(time.DateOnly)] = i
	}

	// The display offset is a whole number of hours, so grouping by UTC
	// hour and folding hours into local days is exact.
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(created_at, 1, 13) AS hour, COUNT(*)
		 FROM access_logs
		 WHERE created_at >= ? AND created_at < ?
		 GROUP BY hour`,
		database.FormatTime(start), database.FormatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("querying daily access counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hour string
		var n int
		if err := rows.Scan(&hour, &n); err != nil {
			return nil, fmt.Errorf("scanning daily access count: %w", err)
		}
		t, err := time.Parse("2006-01-02T15", hour)
		if err != nil {
			return nil, fmt.Errorf("parsing hour bucket %q: %w", hour, err)
		}
		if i, ok := index[t.In(DisplayZone).Format(time.DateOnly)]; ok {
			counts[i].Count += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily access counts: %w", err)
	}
	return counts, nil
}
