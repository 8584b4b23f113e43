package api

import (
	"net/http"
	"strconv"

	"github.com/wayneindustries/security-core/internal/accesslog"
)

// handleListLogs returns the newest access-log entries. The limit query
// parameter defaults to 100 when absent or unparsable and is capped at 500.
// Zero or negative limits return an empty list.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := accesslog.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	entries, err := s.accessLog.Recent(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleDashboardStats returns the overview figures.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboard.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
