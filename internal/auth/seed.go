package auth

import (
	"context"
	"fmt"

	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
)

// seedUser is a bootstrap account.
type seedUser struct {
	displayName string
	username    string
	password    string
	jobTitle    string
	role        Role
}

// seedUsers are created on first boot. Their passwords are public and must
// be changed in any real deployment.
var seedUsers = []seedUser{
	{"Bruce Wayne", "admin", "wayne123", "Diretor Executivo", RoleAdmin},
	{"Bruce Wayne", "bruce", "batman456", "Gerente de Segurança", RoleGerente},
	{"Alfred Pennyworth", "alfred", "butler789", "Mordomo / Assistente", RoleFuncionario},
}

// SeedUsers creates the bootstrap accounts if no users exist.
// It returns the number of accounts created.
func SeedUsers(ctx context.Context, repo *UserRepository, hasher *Hasher, logger *logging.Logger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		logger.Info("users exist, skipping user seed")
		return 0, nil
	}

	for _, s := range seedUsers {
		hash, err := hasher.Hash(s.password)
		if err != nil {
			return 0, fmt.Errorf("hashing seed password: %w", err)
		}
		user := &User{
			DisplayName:  s.displayName,
			Username:     s.username,
			PasswordHash: hash,
			JobTitle:     s.jobTitle,
			Role:         s.role,
			Status:       StatusActive,
		}
		if err := repo.Create(ctx, user); err != nil {
			return 0, fmt.Errorf("creating seed user %s: %w", s.username, err)
		}
	}

	logger.Warn("seed user accounts created",
		"count", len(seedUsers),
		"action_required", "change the default passwords",
	)
	return len(seedUsers), nil
}
