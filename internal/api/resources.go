package api

import (
	"fmt"
	"net/http"

	"github.com/wayneindustries/security-core/internal/resource"
)

// handleListResources returns resources, optionally filtered by the
// categoria and status query parameters.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := resource.Filter{
		Category: q.Get("categoria"),
		Status:   resource.Status(q.Get("status")),
	}

	resources, err := s.resources.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.resources.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var in resource.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.resources.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in resource.UpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.resources.Update(r.Context(), actorFrom(r), id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.resources.Delete(r.Context(), actorFrom(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Recurso '%s' removido com sucesso.", res.Name),
	})
}
