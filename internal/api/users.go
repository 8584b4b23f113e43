package api

import (
	"fmt"
	"net/http"

	"github.com/wayneindustries/security-core/internal/auth"
)

// handleListUsers returns all accounts without password hashes.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleCreateUser creates an account. A blank password falls back to the
// configured default.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in auth.CreateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	user, err := s.users.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in auth.UpdateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	user, err := s.users.Update(r.Context(), actorFrom(r), id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser removes an account. Callers cannot remove themselves.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := s.users.Delete(r.Context(), actorFrom(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Usuário '%s' removido com sucesso.", user.Username),
	})
}
