package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 8 * time.Hour

// Claims is the identity payload of a session token. JSON names match
// what the dashboard frontend reads.
type Claims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"nome"`
	Role        Role   `json:"role"`
	JobTitle    string `json:"cargo"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing secret and session lifetime. It is read
// once at startup and passed to NewTokenCodec.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenCodec issues and verifies HS256 session tokens.
// Tokens are not stored; a token stays valid until it expires.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec. A non-positive TTL means DefaultTokenTTL.
func NewTokenCodec(cfg TokenConfig) *TokenCodec {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured session lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for user expiring TTL after now.
func (c *TokenCodec) Issue(user *User) (string, error) {
	// JWT timestamps have second precision; truncating keeps exp exactly
	// iat + TTL.
	now := c.now().Truncate(time.Second)
	claims := Claims{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		JobTitle:    user.JobTitle,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
//
// Errors:
//   - ErrUnauthenticated: raw is empty or not a JWT
//   - ErrTokenExpired: now is at or past exp
//   - ErrTokenInvalid: bad signature, wrong algorithm or missing identity
func (c *TokenCodec) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == 0 || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing identity", ErrTokenInvalid)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}

	return claims, nil
}
