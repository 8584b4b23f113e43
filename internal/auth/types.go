package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Role represents an authorisation tier. Roles are strictly ordered:
// admin ⊇ gerente ⊇ funcionario.
type Role string

const (
	// RoleFuncionario is regular staff: reads everything, manages resources.
	RoleFuncionario Role = "funcionario"

	// RoleGerente is a security manager: staff rights plus user listing and
	// area status changes.
	RoleGerente Role = "gerente"

	// RoleAdmin has full control including user management.
	RoleAdmin Role = "admin"
)

// roleRank orders roles by privilege. Unknown roles rank 0.
var roleRank = map[Role]int{
	RoleFuncionario: 1,
	RoleGerente:     2,
	RoleAdmin:       3,
}

// ValidRoles lists the roles a user account may hold, least privileged first.
var ValidRoles = []Role{RoleFuncionario, RoleGerente, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return roleRank[r] > 0
}

// AtLeast reports whether r grants every right of minimum.
// An unknown role satisfies nothing.
func (r Role) AtLeast(minimum Role) bool {
	rank := roleRank[r]
	return rank > 0 && rank >= roleRank[minimum]
}

// Status is the account state. Only active accounts can log in.
type Status string

const (
	StatusActive   Status = "ativo"
	StatusInactive Status = "inativo"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// DefaultJobTitle is stored when a new user has no job title.
const DefaultJobTitle = "Funcionário"

// User represents a staff account.
type User struct {
	ID           int64     `json:"id"`
	DisplayName  string    `json:"nome"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialised
	JobTitle     string    `json:"cargo"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Profile is the public projection returned on login.
type Profile struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"nome"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	JobTitle    string `json:"cargo"`
}

// Profile returns the public projection of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		Role:        u.Role,
		JobTitle:    u.JobTitle,
	}
}

// Sentinel errors for auth operations.
var (
	ErrUnauthenticated    = errors.New("auth: token missing or malformed")
	ErrTokenExpired       = errors.New("auth: token has expired")
	ErrTokenInvalid       = errors.New("auth: invalid token")
	ErrForbidden          = errors.New("auth: insufficient permissions")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrUsernameExists     = errors.New("auth: username already exists")
	ErrSelfDelete         = errors.New("auth: cannot delete own account")
	ErrInvalidInput       = errors.New("auth: invalid input")
)

// Validation errors. Each wraps ErrInvalidInput.
var (
	ErrMissingFields   = fmt.Errorf("%w: display name and username are required", ErrInvalidInput)
	ErrInvalidUsername = fmt.Errorf("%w: username format", ErrInvalidInput)
	ErrInvalidRole     = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown status", ErrInvalidInput)
)
