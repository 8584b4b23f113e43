package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wayneindustries/security-core/internal/area"
	"github.com/wayneindustries/security-core/internal/auth"
	"github.com/wayneindustries/security-core/internal/resource"
)

// Error represents a structured error response. Error repeats Message for
// clients that read the "error" key.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
)

// User-facing messages.
const (
	msgInvalidCredentials = "Credenciais inválidas. Acesso negado."
	msgTokenMissing       = "Token não fornecido"
	msgTokenExpired       = "Token expirado. Faça login novamente."
	msgTokenInvalid       = "Token inválido."
	msgForbidden          = "Acesso negado: permissão insuficiente."
	msgAdminOnly          = "Acesso negado: apenas administradores."
	msgResourceFields     = "Nome e categoria são obrigatórios."
	msgResourceNotFound   = "Recurso não encontrado."
	msgUserFields         = "Nome e username são obrigatórios."
	msgUsernameExists     = "Username já cadastrado."
	msgUserNotFound       = "Usuário não encontrado."
	msgSelfDelete         = "Você não pode remover sua própria conta."
	msgAreaStatus         = "Status inválido. Use: normal, alerta ou bloqueado."
	msgAreaNotFound       = "Área não encontrada."
	msgLogout             = "Logout realizado com sucesso."
	msgInvalidJSON        = "Corpo da requisição inválido."
	msgInvalidID          = "ID inválido."
	msgInternal           = "Erro interno do servidor."
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
		Error:   message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeValidation writes a 400 validation error response.
func writeValidation(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeValidation, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, msgInternal)
}

// writeAuthError maps a token or guard error to a response.
func writeAuthError(w http.ResponseWriter, err error, level auth.Level) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		if level == auth.LevelAdmin {
			writeForbidden(w, msgAdminOnly)
			return
		}
		writeForbidden(w, msgForbidden)
	case errors.Is(err, auth.ErrTokenExpired):
		writeUnauthorized(w, msgTokenExpired)
	case err == auth.ErrUnauthenticated: //nolint:errorlint // only the bare sentinel means no token; malformed ones are wrapped
		writeUnauthorized(w, msgTokenMissing)
	default:
		writeUnauthorized(w, msgTokenInvalid)
	}
}

// writeServiceError maps a domain error to a response. Anything it does
// not recognise is logged and answered with 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, resource.ErrNotFound):
		writeNotFound(w, msgResourceNotFound)
	case errors.Is(err, resource.ErrMissingFields):
		writeValidation(w, msgResourceFields)
	case errors.Is(err, resource.ErrInvalidInput):
		writeValidation(w, validationMessage(err))

	case errors.Is(err, area.ErrNotFound):
		writeNotFound(w, msgAreaNotFound)
	case errors.Is(err, area.ErrInvalidInput):
		writeValidation(w, msgAreaStatus)

	case errors.Is(err, auth.ErrUserNotFound):
		writeNotFound(w, msgUserNotFound)
	case errors.Is(err, auth.ErrUsernameExists):
		writeError(w, http.StatusBadRequest, ErrCodeConflict, msgUsernameExists)
	case errors.Is(err, auth.ErrSelfDelete):
		writeError(w, http.StatusBadRequest, ErrCodeConflict, msgSelfDelete)
	case errors.Is(err, auth.ErrMissingFields):
		writeValidation(w, msgUserFields)
	case errors.Is(err, auth.ErrInvalidInput):
		writeValidation(w, validationMessage(err))

	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
		writeInternalError(w)
	}
}

// validationMessage strips the package prefix from a wrapped validation
// error so only the field detail reaches the client.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
