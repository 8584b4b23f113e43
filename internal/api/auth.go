package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/auth"
)

// loginRequest is the request body for POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin authenticates a user and returns a session token. Every
// attempt is written to the access log by the authenticator, including
// ones whose body cannot be decoded: they proceed as blank credentials.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = loginRequest{}
	}

	result, err := s.authn.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.observeLogin(string(accesslog.OutcomeDenied))
			writeUnauthorized(w, msgInvalidCredentials)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.observeLogin(string(accesslog.OutcomeSuccess))
	writeJSON(w, http.StatusOK, result)
}

// handleLogout confirms a logout. Tokens are stateless; the client
// discards its copy.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: msgLogout})
}

// handleMe returns the caller's current profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	user, err := s.users.Get(r.Context(), claims.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}
