package auth

// Level is the minimum capability an operation requires.
type Level int

const (
	// LevelAuthenticated admits any valid token.
	LevelAuthenticated Level = iota
	// LevelManager admits gerente and admin.
	LevelManager
	// LevelAdmin admits admin only.
	LevelAdmin
)

// MinRole returns the least privileged role that satisfies l.
func (l Level) MinRole() Role {
	switch l {
	case LevelAdmin:
		return RoleAdmin
	case LevelManager:
		return RoleGerente
	default:
		return RoleFuncionario
	}
}

// String returns a label for logs and metrics.
func (l Level) String() string {
	switch l {
	case LevelAdmin:
		return "admin"
	case LevelManager:
		return "manager"
	default:
		return "authenticated"
	}
}

// Allows reports whether role satisfies l.
func (l Level) Allows(role Role) bool {
	return role.AtLeast(l.MinRole())
}
