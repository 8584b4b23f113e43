package api

import (
	"net/http"

	"github.com/wayneindustries/security-core/internal/area"
)

// updateAreaRequest is the request body for PUT /api/areas/{id}.
type updateAreaRequest struct {
	Status area.Status `json:"status"`
}

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.areas.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

// handleUpdateArea changes an area's security status.
func (s *Server) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateAreaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := s.areas.UpdateStatus(r.Context(), actorFrom(r), id, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
