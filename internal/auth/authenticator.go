package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wayneindustries/security-core/internal/accesslog"
)

// Login log details.
const (
	loginSucceededDetail = "Login bem-sucedido"
	loginFailedDetail    = "Credenciais inválidas"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Authenticator runs the login flow. Every attempt, successful or not,
// leaves one access-log entry.
type Authenticator struct {
	users  *UserRepository
	hasher *Hasher
	codec  *TokenCodec
	log    *accesslog.Repository
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(users *UserRepository, hasher *Hasher, codec *TokenCodec, log *accesslog.Repository) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, codec: codec, log: log}
}

// Login checks username and password against active accounts. Unknown
// users, inactive users and wrong passwords are indistinguishable to the
// caller: each returns ErrInvalidCredentials after logging a denial.
func (a *Authenticator) Login(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	actor := accesslog.Actor{Username: username, IP: ip}

	user, err := a.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, a.reject(ctx, actor)
	case err != nil:
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.IsActive() || !a.hasher.Verify(password, user.PasswordHash) {
		return nil, a.reject(ctx, actor)
	}

	token, err := a.codec.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := a.log.Append(ctx, actor.Success(accesslog.ActionLogin, loginSucceededDetail)); err != nil {
		return nil, fmt.Errorf("recording login: %w", err)
	}

	return &LoginResult{Token: token, User: user.Profile()}, nil
}

func (a *Authenticator) reject(ctx context.Context, actor accesslog.Actor) error {
	if err := a.log.Append(ctx, actor.Denied(accesslog.ActionLogin, loginFailedDetail)); err != nil {
		return fmt.Errorf("recording failed login: %w", err)
	}
	return ErrInvalidCredentials
}
