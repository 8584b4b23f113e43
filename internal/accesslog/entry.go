package accesslog

import (
	"errors"
	"time"
)

// Outcome records whether the logged attempt was allowed.
type Outcome string

const (
	OutcomeSuccess Outcome = "sucesso"
	OutcomeDenied  Outcome = "negado"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeDenied
}

// UnknownActor is recorded when a failed login carries no username.
const UnknownActor = "desconhecido"

// Action labels. They are shown verbatim in the dashboard and existing
// reports filter on them, so they must not change.
const (
	ActionLogin          = "Login"
	ActionCreateResource = "Criar Recurso"
	ActionUpdateResource = "Editar Recurso"
	ActionDeleteResource = "Remover Recurso"
	ActionCreateUser     = "Criar Usuário"
	ActionUpdateUser     = "Editar Usuário"
	ActionDeleteUser     = "Remover Usuário"
	ActionChangeArea     = "Alterar Área"
)

// Log limits for Recent.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// ErrInvalidEntry is returned when an entry lacks an action or outcome.
var ErrInvalidEntry = errors.New("accesslog: invalid entry")

// Entry is one immutable access-log record.
type Entry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"usuario"`
	Action    string    `json:"acao"`
	Outcome   Outcome   `json:"status"`
	IP        string    `json:"ip"`
	Detail    string    `json:"detalhes"`
	CreatedAt time.Time `json:"timestamp"`
}

// Actor identifies who performed an operation and from where.
// Services receive it from the transport layer.
type Actor struct {
	Username string
	IP       string
}

// Success builds a successful entry attributed to a.
func (a Actor) Success(action, detail string) *Entry {
	return &Entry{
		Actor:   a.Username,
		Action:  action,
		Outcome: OutcomeSuccess,
		IP:      a.IP,
		Detail:  detail,
	}
}

// Denied builds a denied entry attributed to a. A blank username is
// recorded as UnknownActor.
func (a Actor) Denied(action, detail string) *Entry {
	actor := a.Username
	if actor == "" {
		actor = UnknownActor
	}
	return &Entry{
		Actor:   actor,
		Action:  action,
		Outcome: OutcomeDenied,
		IP:      a.IP,
		Detail:  detail,
	}
}

// ClampLimit bounds limit to [0, MaxLimit]. Negative limits select nothing.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
