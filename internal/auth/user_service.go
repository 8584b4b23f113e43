package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

// CreateUserInput is the payload for a new account. Blank optional fields
// take defaults: password from configuration, job title DefaultJobTitle,
// role funcionario, status ativo.
type CreateUserInput struct {
	DisplayName string `json:"nome"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	JobTitle    string `json:"cargo"`
	Role        Role   `json:"role"`
	Status      Status `json:"status"`
}

// UpdateUserInput patches an account. Nil fields are left unchanged and a
// nil or empty password keeps the current one.
type UpdateUserInput struct {
	DisplayName *string `json:"nome"`
	JobTitle    *string `json:"cargo"`
	Role        *Role   `json:"role"`
	Status      *Status `json:"status"`
	Password    *string `json:"password"`
}

// UserService manages accounts. Every mutation commits together with its
// access-log entry.
type UserService struct {
	users           *UserRepository
	log             *accesslog.Repository
	hasher          *Hasher
	defaultPassword string
}

// NewUserService creates a user service.
func NewUserService(db *database.DB, log *accesslog.Repository, hasher *Hasher, defaultPassword string) *UserService {
	return &UserService{
		users:           NewUserRepository(db),
		log:             log,
		hasher:          hasher,
		defaultPassword: defaultPassword,
	}
}

// List returns all accounts, newest first.
func (s *UserService) List(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// CountActive returns the number of accounts with status ativo.
func (s *UserService) CountActive(ctx context.Context) (int, error) {
	return s.users.CountActive(ctx)
}

// Create validates in and inserts the account. A duplicate username
// returns ErrUsernameExists and inserts nothing.
func (s *UserService) Create(ctx context.Context, actor accesslog.Actor, in CreateUserInput) (*User, error) {
	user := &User{
		DisplayName: strings.TrimSpace(in.DisplayName),
		Username:    strings.TrimSpace(in.Username),
		JobTitle:    strings.TrimSpace(in.JobTitle),
		Role:        in.Role,
		Status:      in.Status,
	}
	if user.DisplayName == "" || user.Username == "" {
		return nil, ErrMissingFields
	}
	if !IsValidUsername(user.Username) {
		return nil, ErrInvalidUsername
	}
	if user.JobTitle == "" {
		user.JobTitle = DefaultJobTitle
	}
	if user.Role == "" {
		user.Role = RoleFuncionario
	}
	if user.Status == "" {
		user.Status = StatusActive
	}
	if err := validateRoleStatus(user.Role, user.Status); err != nil {
		return nil, err
	}

	password := in.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	err = s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return nil, err
		}
		return actor.Success(accesslog.ActionCreateUser,
			fmt.Sprintf("Usuário '%s' criado", user.Username)), nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the non-nil fields of in to account id.
func (s *UserService) Update(ctx context.Context, actor accesslog.Actor, id int64, in UpdateUserInput) (*User, error) {
	var hash string
	if in.Password != nil && *in.Password != "" {
		var err error
		if hash, err = s.hasher.Hash(*in.Password); err != nil {
			return nil, err
		}
	}

	var updated *User
	err := s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		repo := s.users.WithTx(tx)
		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if in.DisplayName != nil {
			name := strings.TrimSpace(*in.DisplayName)
			if name == "" {
				return nil, ErrMissingFields
			}
			user.DisplayName = name
		}
		if in.JobTitle != nil {
			user.JobTitle = strings.TrimSpace(*in.JobTitle)
		}
		if in.Role != nil {
			user.Role = *in.Role
		}
		if in.Status != nil {
			user.Status = *in.Status
		}
		if err := validateRoleStatus(user.Role, user.Status); err != nil {
			return nil, err
		}
		if hash != "" {
			user.PasswordHash = hash
		}

		if err := repo.Update(ctx, user); err != nil {
			return nil, err
		}
		updated = user
		return actor.Success(accesslog.ActionUpdateUser,
			fmt.Sprintf("Usuário ID %d atualizado", id)), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes account id and returns it. Deleting the account whose
// username matches the actor returns ErrSelfDelete.
func (s *UserService) Delete(ctx context.Context, actor accesslog.Actor, id int64) (*User, error) {
	var deleted *User
	err := s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		repo := s.users.WithTx(tx)
		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user.Username == actor.Username {
			return nil, ErrSelfDelete
		}
		if err := repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		deleted = user
		return actor.Success(accesslog.ActionDeleteUser,
			fmt.Sprintf("Usuário '%s' removido", user.Username)), nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func validateRoleStatus(role Role, status Status) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
